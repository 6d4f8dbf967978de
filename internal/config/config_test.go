package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SESSION_HISTORY_LIMIT", "")
	t.Setenv("OPENAI_EMBEDDING_MODEL", "")
	t.Setenv("EMBEDDING_DIMENSIONS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.Store != SessionStorePostgres || cfg.Session.HistoryLimit != 20 {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Matching.RoommateTopN != 10 || cfg.Matching.DormTopN != 3 {
		t.Errorf("matching = %+v", cfg.Matching)
	}
	if cfg.OpenAI.Enabled {
		t.Error("OpenAI enabled without a key")
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-small" || cfg.OpenAI.EmbeddingDimensions != 1536 {
		t.Errorf("embedding = %s/%d", cfg.OpenAI.EmbeddingModel, cfg.OpenAI.EmbeddingDimensions)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("ROOMMATE_TOP_N", "5")
	t.Setenv("DORM_TOP_N", "not-a-number")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PG_AUTO_MIGRATE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.Store != SessionStoreRedis {
		t.Errorf("store = %q, want redis", cfg.Session.Store)
	}
	if cfg.Matching.RoommateTopN != 5 || cfg.Matching.DormTopN != 3 {
		t.Errorf("matching = %+v, want 5 and fallback 3", cfg.Matching)
	}
	if !cfg.OpenAI.Enabled || cfg.PostgreSQL.AutoMigrate {
		t.Errorf("openai enabled = %v, auto migrate = %v", cfg.OpenAI.Enabled, cfg.PostgreSQL.AutoMigrate)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown store", key: "SESSION_STORE", value: "mongo"},
		{name: "zero history", key: "SESSION_HISTORY_LIMIT", value: "0"},
		{name: "zero max top n", key: "MATCH_MAX_TOP_N", value: "0"},
		{name: "zero message length", key: "CHAT_MAX_MESSAGE_LENGTH", value: "0"},
		{name: "zero embedding dimensions", key: "EMBEDDING_DIMENSIONS", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s error = nil", tt.key, tt.value)
			}
		})
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5432, User: "roomy", Password: "secret", Database: "roomy", SSLMode: "disable",
	}}
	want := "host=db port=5432 user=roomy password=secret dbname=roomy sslmode=disable"
	if got := cfg.GetPostgreSQLDSN(); got != want {
		t.Errorf("GetPostgreSQLDSN() = %q, want %q", got, want)
	}

	cfg.PostgreSQL.DSN = "postgres://localhost/roomy"
	if got := cfg.GetPostgreSQLDSN(); got != "postgres://localhost/roomy" {
		t.Errorf("GetPostgreSQLDSN() = %q, want DSN", got)
	}
}
