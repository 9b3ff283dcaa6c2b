// Copyright 2025 Switchyard
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"errors"
	"strings"
	"testing"
)

// clearEnvOverrides neutralizes ambient environment so registry tests are
// hermetic regardless of what the host shell exports.
func clearEnvOverrides(t *testing.T) {
	t.Helper()
	t.Setenv(EnvVar, "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PRIMARY_DATABASE_URL", "")
}

func TestBuildFlatEnvironment(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"production": map[string]interface{}{
			"adapter":  "sqlite3",
			"database": "x",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := reg.ConfigsFor("production", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Name() != "primary" {
		t.Errorf("spec name = %q, want %q", records[0].Name(), "primary")
	}
	if records[0].Database() != "x" {
		t.Errorf("database = %q, want %q", records[0].Database(), "x")
	}
}

func TestBuildNestedEnvironment(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"production": map[string]interface{}{
			"primary": map[string]interface{}{
				"adapter":  "postgresql",
				"database": "app_production",
			},
			"primary_replica": map[string]interface{}{
				"adapter":  "postgresql",
				"database": "app_production",
				"replica":  true,
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writers, err := reg.ConfigsFor("production", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writers) != 1 || writers[0].Name() != "primary" {
		t.Fatalf("non-replica records = %v, want just primary", writers)
	}

	all, err := reg.ConfigsFor("production", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d records with replicas, want 2", len(all))
	}
}

func TestBuildEnvironmentAsURLString(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"development": "sqlite3:db/development.sqlite3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := reg.FindByEnvironmentOrDefault("development")
	if rec == nil {
		t.Fatal("no record for development")
	}
	if rec.Name() != "primary" {
		t.Errorf("spec name = %q, want %q", rec.Name(), "primary")
	}
	if rec.Adapter() != "sqlite3" {
		t.Errorf("adapter = %q, want %q", rec.Adapter(), "sqlite3")
	}
	if rec.Database() != "db/development.sqlite3" {
		t.Errorf("database = %q, want %q", rec.Database(), "db/development.sqlite3")
	}
}

func TestBuildBareStringBecomesDatabase(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"development": "dev_db",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := reg.FindByEnvironmentOrDefault("development")
	if rec == nil {
		t.Fatal("no record for development")
	}
	if rec.Database() != "dev_db" {
		t.Errorf("database = %q, want %q", rec.Database(), "dev_db")
	}
	if rec.Adapter() != "" {
		t.Errorf("adapter = %q, want empty", rec.Adapter())
	}
}

func TestBuildNestedURLLeaf(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"production": map[string]interface{}{
			"primary": "postgres://db.internal/app_production",
			"animals": map[string]interface{}{
				"adapter":  "mysql2",
				"database": "animals_production",
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := reg.ConfigsFor("production", "primary", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Adapter() != "postgresql" {
		t.Errorf("adapter = %q, want postgresql (normalized)", records[0].Adapter())
	}
	if records[0].Database() != "app_production" {
		t.Errorf("database = %q, want app_production", records[0].Database())
	}
}

func TestBuildURLKeySettings(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"production": map[string]interface{}{
			"primary": map[string]interface{}{
				"url":  "postgresql://user:pw@db.internal/app_production",
				"pool": 20,
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := reg.Records()[0]
	if rec.Database() != "app_production" {
		t.Errorf("database = %q, want from url", rec.Database())
	}
	if rec.PoolSize() != 20 {
		t.Errorf("pool = %d, want 20 preserved from settings", rec.PoolSize())
	}
	if rec.Username() != "user" {
		t.Errorf("username = %q, want from url", rec.Username())
	}
}

func TestBuildRejectsUnsupportedValues(t *testing.T) {
	clearEnvOverrides(t)

	_, err := Build(map[string]interface{}{
		"production": 42,
	})

	var confErr *InvalidConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error = %v, want InvalidConfigurationError", err)
	}
}

func TestDuplicateSpecNamesRejected(t *testing.T) {
	clearEnvOverrides(t)

	first, err := NewRecord("production", "primary", map[string]interface{}{"adapter": "postgresql"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewRecord("production", "primary", map[string]interface{}{"adapter": "mysql2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = NewRegistry([]*Record{first, second})
	if err == nil {
		t.Fatal("expected duplicate spec error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %q, want to mention duplicate", err.Error())
	}
}

func TestConfigsForUnknownName(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"production": map[string]interface{}{
			"primary": map[string]interface{}{"adapter": "postgresql", "database": "app"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = reg.ConfigsFor("production", "missing", false)

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if !strings.Contains(err.Error(), "production/primary") {
		t.Errorf("error = %q, want to list available combinations", err.Error())
	}
}

func TestConfigsForDefaultsEnvWhenNameGiven(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"default": map[string]interface{}{
			"primary": map[string]interface{}{"adapter": "sqlite3", "database": "db/default.sqlite3"},
		},
		"production": map[string]interface{}{
			"primary": map[string]interface{}{"adapter": "postgresql", "database": "app"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := reg.ConfigsFor("", "primary", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Env() != "default" {
		t.Errorf("env = %q, want the default environment", records[0].Env())
	}
}

func TestFindByEnvironmentOrDefault(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"default": map[string]interface{}{
			"primary": map[string]interface{}{"adapter": "sqlite3", "database": "db/app.sqlite3"},
			"animals": map[string]interface{}{"adapter": "sqlite3", "database": "db/animals.sqlite3"},
		},
		"production": map[string]interface{}{
			"primary": map[string]interface{}{"adapter": "postgresql", "database": "app_production"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("environment name match", func(t *testing.T) {
		rec := reg.FindByEnvironmentOrDefault("production")
		if rec == nil {
			t.Fatal("no record found")
		}
		if rec.Env() != "production" {
			t.Errorf("env = %q, want production", rec.Env())
		}
	})

	t.Run("spec name in default environment", func(t *testing.T) {
		rec := reg.FindByEnvironmentOrDefault("animals")
		if rec == nil {
			t.Fatal("no record found")
		}
		if rec.Env() != "default" || rec.Name() != "animals" {
			t.Errorf("got %s, want default/animals", rec)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if rec := reg.FindByEnvironmentOrDefault("staging"); rec != nil {
			t.Errorf("got %s, want nil", rec)
		}
	})
}

func TestFindByEnvironmentOrDefaultPrecedence(t *testing.T) {
	clearEnvOverrides(t)

	// "animals" is both an environment name and a spec name within the
	// default environment. The environment match must win.
	reg, err := Build(map[string]interface{}{
		"animals": map[string]interface{}{
			"adapter":  "postgresql",
			"database": "animals_env",
		},
		"default": map[string]interface{}{
			"animals": map[string]interface{}{"adapter": "sqlite3", "database": "animals_spec"},
			"primary": map[string]interface{}{"adapter": "sqlite3", "database": "db/app.sqlite3"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := reg.FindByEnvironmentOrDefault("animals")
	if rec == nil {
		t.Fatal("no record found")
	}
	if rec.Env() != "animals" {
		t.Errorf("env = %q, want the environment-name match to win", rec.Env())
	}
	if rec.Database() != "animals_env" {
		t.Errorf("database = %q, want animals_env", rec.Database())
	}
}

func TestEnvironmentVariableOverrides(t *testing.T) {
	t.Run("DATABASE_URL overrides default-env primary", func(t *testing.T) {
		clearEnvOverrides(t)
		t.Setenv("DATABASE_URL", "postgres://override:pw@db.override/app_override")

		reg, err := Build(map[string]interface{}{
			"default": map[string]interface{}{
				"primary": map[string]interface{}{
					"adapter":  "sqlite3",
					"database": "db/app.sqlite3",
					"pool":     15,
				},
			},
			"production": map[string]interface{}{
				"primary": map[string]interface{}{"adapter": "postgresql", "database": "app_production"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rec := reg.FindByEnvironmentOrDefault("default")
		if rec.Adapter() != "postgresql" {
			t.Errorf("adapter = %q, want postgresql from URL", rec.Adapter())
		}
		if rec.Database() != "app_override" {
			t.Errorf("database = %q, want app_override", rec.Database())
		}
		if rec.PoolSize() != 15 {
			t.Errorf("pool = %d, want 15 preserved from settings", rec.PoolSize())
		}

		// Other environments stay untouched.
		prod := reg.FindByEnvironmentOrDefault("production")
		if prod.Database() != "app_production" {
			t.Errorf("production database = %q, want untouched", prod.Database())
		}
	})

	t.Run("spec-specific variable beats DATABASE_URL", func(t *testing.T) {
		clearEnvOverrides(t)
		t.Setenv("DATABASE_URL", "postgres://db.generic/generic")
		t.Setenv("PRIMARY_DATABASE_URL", "postgres://db.specific/specific")

		reg, err := Build(map[string]interface{}{
			"default": map[string]interface{}{
				"primary": map[string]interface{}{"adapter": "sqlite3", "database": "db/app.sqlite3"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rec := reg.FindByEnvironmentOrDefault("default")
		if rec.Database() != "specific" {
			t.Errorf("database = %q, want the spec-specific override", rec.Database())
		}
	})

	t.Run("generic DATABASE_URL does not touch non-primary specs", func(t *testing.T) {
		clearEnvOverrides(t)
		t.Setenv("DATABASE_URL", "postgres://db.generic/generic")

		reg, err := Build(map[string]interface{}{
			"default": map[string]interface{}{
				"primary": map[string]interface{}{"adapter": "sqlite3", "database": "db/app.sqlite3"},
				"animals": map[string]interface{}{"adapter": "sqlite3", "database": "db/animals.sqlite3"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := reg.ConfigsFor("default", "animals", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].Database() != "db/animals.sqlite3" {
			t.Errorf("animals database = %q, want untouched", records[0].Database())
		}
	})

	t.Run("spec-specific variable targets its spec", func(t *testing.T) {
		clearEnvOverrides(t)
		t.Setenv("ANIMALS_DATABASE_URL", "postgres://db.animals/animals_override")

		reg, err := Build(map[string]interface{}{
			"default": map[string]interface{}{
				"primary": map[string]interface{}{"adapter": "sqlite3", "database": "db/app.sqlite3"},
				"animals": map[string]interface{}{"adapter": "sqlite3", "database": "db/animals.sqlite3"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := reg.ConfigsFor("default", "animals", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].Database() != "animals_override" {
			t.Errorf("animals database = %q, want overridden", records[0].Database())
		}
	})

	t.Run("URL-built records are not overridden", func(t *testing.T) {
		clearEnvOverrides(t)
		t.Setenv("DATABASE_URL", "postgres://db.generic/generic")

		reg, err := Build(map[string]interface{}{
			"default": map[string]interface{}{
				"primary": "postgres://db.file/from_file",
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rec := reg.FindByEnvironmentOrDefault("default")
		if rec.Database() != "from_file" {
			t.Errorf("database = %q, want URL record left alone", rec.Database())
		}
	})

	t.Run("synthesizes primary when default env absent", func(t *testing.T) {
		clearEnvOverrides(t)
		t.Setenv("DATABASE_URL", "postgres://db.synth/synthesized")

		reg, err := Build(map[string]interface{}{
			"production": map[string]interface{}{
				"primary": map[string]interface{}{"adapter": "postgresql", "database": "app_production"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rec := reg.FindByEnvironmentOrDefault("default")
		if rec == nil {
			t.Fatal("no synthesized record for default env")
		}
		if rec.Name() != "primary" || rec.Database() != "synthesized" {
			t.Errorf("got %s database %q, want synthesized primary", rec, rec.Database())
		}
	})
}

func TestDefaultEnvSelection(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv(EnvVar, "production")
	t.Setenv("DATABASE_URL", "postgres://db.override/prod_override")

	reg, err := Build(map[string]interface{}{
		"production": map[string]interface{}{
			"primary": map[string]interface{}{"adapter": "postgresql", "database": "app_production"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reg.DefaultEnvName() != "production" {
		t.Errorf("default env = %q, want production", reg.DefaultEnvName())
	}

	// With production as the default env, DATABASE_URL now applies to it.
	rec := reg.FindByEnvironmentOrDefault("production")
	if rec.Database() != "prod_override" {
		t.Errorf("database = %q, want overridden", rec.Database())
	}
}

func TestEnvironmentsAndSpecNames(t *testing.T) {
	clearEnvOverrides(t)

	reg, err := Build(map[string]interface{}{
		"production": map[string]interface{}{
			"primary": map[string]interface{}{"adapter": "postgresql", "database": "app"},
			"animals": map[string]interface{}{"adapter": "postgresql", "database": "animals"},
		},
		"development": map[string]interface{}{
			"adapter":  "sqlite3",
			"database": "db/development.sqlite3",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	envs := reg.Environments()
	if len(envs) != 2 || envs[0] != "development" || envs[1] != "production" {
		t.Errorf("Environments() = %v, want [development production]", envs)
	}

	specs := reg.SpecNames("production")
	if len(specs) != 2 || specs[0] != "animals" || specs[1] != "primary" {
		t.Errorf("SpecNames(production) = %v, want [animals primary]", specs)
	}
}
