package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/restuml2code/internal/model"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a file-backed SQLite database with the export schema in t.TempDir().
func newTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "model.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, CreateSchema(db))
	return db
}

// sampleRegistry builds a registry exercising every element kind.
func sampleRegistry() *model.Registry {
	reg := model.NewRegistry()

	timer := reg.AddHeader("timer.h")
	timer.Description = "Timer driver API."
	timer.Includes = append(timer.Includes, "timer_cfg.h", "stdint.h")
	timer.Functions = append(timer.Functions, model.FunctionRecord{
		Name:        "Timer_Init",
		Header:      "timer.h",
		Syntax:      "void Timer_Init(const Timer_ConfigType *config);",
		ReturnValue: &model.ReturnValue{Type: "void"},
		InParams:    []model.Param{{Name: "config", Description: "Configuration."}},
	})
	timer.Types = append(timer.Types, model.TypeRecord{
		Name:   "Timer_ModeType",
		Kind:   model.KindEnumeration,
		Header: "timer.h",
		Constants: []model.EnumConstant{
			{Name: "TIMER_ONESHOT", Value: "0"},
			{Name: "TIMER_PERIODIC", Value: "1"},
		},
	})
	timer.MacroFunctions = append(timer.MacroFunctions, model.MacroFunctionRecord{
		FunctionRecord: model.FunctionRecord{Name: "TIMER_TICKS", Header: "timer.h"},
		Definition: []model.ConditionalBranch{
			{Condition: "TIMER_FAST == STD_ON", Tag: model.TagIf, Code: []string{"((ms) * 10u)"}},
			{Tag: model.TagElse, Code: []string{"(ms)"}},
		},
		CallCycleInterval: "10 ms",
	})
	timer.SetGlobals(map[string]string{"version": "1.2"})

	cfg := reg.AddHeader("timer_cfg.h")
	cfg.Generated = true
	cfg.MacroConstants = append(cfg.MacroConstants, model.MacroConstantGroup{
		Group:     "Channel limits",
		Header:    "timer_cfg.h",
		Constants: []model.EnumConstant{{Name: "TIMER_CHANNELS", Value: "4"}},
	})
	cfg.Variables = append(cfg.Variables, model.VariableGroup{
		Group:     "Runtime state",
		Header:    "timer_cfg.h",
		Variables: []model.Variable{{Syntax: "extern uint8 Timer_State;"}},
		Private:   true,
	})
	cfg.SetGlobals(map[string]string{"version": "1.2"})
	return reg
}
