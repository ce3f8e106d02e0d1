package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villafinder/internal/domain/display"
	"villafinder/internal/domain/related"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "KAFKA_BROKERS", "RETRY_BACKOFF", "PAGE_CACHE_TTL", "BASE_URL"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, time.Hour, cfg.PageCacheTTL)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.Equal(t, "https://poolvillafinder.com", cfg.BaseURL)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadValidatesDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "cassandra")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadKafkaRequiresMongo(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("MONGO_URI", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("RETRY_BACKOFF", "1s,soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("RETRY_BACKOFF", "")
	t.Setenv("S3_USE_SSL", "maybe")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SITE_NAME=FromFile\nVF_DOTENV_ONLY=yes\n"), 0o600))
	t.Setenv("SITE_NAME", "FromEnv")
	t.Setenv("VF_DOTENV_ONLY", "")
	require.NoError(t, os.Unsetenv("VF_DOTENV_ONLY"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "FromEnv", os.Getenv("SITE_NAME"))
	assert.Equal(t, "yes", os.Getenv("VF_DOTENV_ONLY"))
}

func TestParseTuning(t *testing.T) {
	tuning, err := ParseTuning([]byte(`
related:
  guest_spread: 2
  weights:
    karaoke: 7
    private_pool: 3
    same_district: 10
    near_price: 5
display:
  tag_limit: 4
`))
	require.NoError(t, err)
	assert.Equal(t, 2, tuning.Related.GuestSpread)
	assert.Equal(t, 7, tuning.Related.Weights.Karaoke)
	assert.Equal(t, 4, tuning.Display.TagLimit)
}

func TestParseTuningKeepsOmittedDefaults(t *testing.T) {
	tuning, err := ParseTuning([]byte(`
related:
  weights:
    karaoke: 7
display:
  faq_rules:
    - question: "มีสระว่ายน้ำไหม?"
      keywords: [สระ]
      answer: "มีครับ {first}"
`))
	require.NoError(t, err)

	def := related.DefaultConfig()
	want := def.Weights
	want.Karaoke = 7
	assert.Equal(t, want, related.NewRanker(tuning.Related).Config().Weights)
	assert.Equal(t, def.PetTagAliases, tuning.Related.PetTagAliases)
	assert.Equal(t, def.PoolSize, tuning.Related.PoolSize)
	assert.Equal(t, display.DefaultConfig().TagPriority, tuning.Display.TagPriority)
	require.Len(t, tuning.Display.FAQRules, 1)
	assert.Equal(t, []string{"สระ"}, tuning.Display.FAQRules[0].Keywords)
}

func TestParseTuningExplicitZeroWeight(t *testing.T) {
	tuning, err := ParseTuning([]byte("related:\n  weights:\n    near_price: 0\n"))
	require.NoError(t, err)
	w := related.NewRanker(tuning.Related).Config().Weights
	assert.Equal(t, 0, w.NearPrice)
	assert.Equal(t, related.DefaultConfig().Weights.SameDistrict, w.SameDistrict)
}

func TestParseTuningMalformedFallsBack(t *testing.T) {
	tuning, err := ParseTuning([]byte("related: [not a map"))
	require.Error(t, err)
	assert.Equal(t, DefaultTuning(), tuning)

	tuning, err = ParseTuning([]byte("unknown_section: 1\n"))
	require.Error(t, err)
	assert.Equal(t, DefaultTuning(), tuning)

	tuning, err = ParseTuning(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)
}

func TestLoadTuningMissingFile(t *testing.T) {
	tuning, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, DefaultTuning(), tuning)

	tuning, err = LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)
}
