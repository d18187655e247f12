package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/vietdv277/bucketscope/internal/config"
)

func TestReportFileName(t *testing.T) {
	tests := []struct {
		base, build, want string
	}{
		{"gcp-bucket-details-2026", "", "gcp-bucket-details-2026.csv"},
		{"gcp-bucket-details-2026", "42", "gcp-bucket-details-2026_42.csv"},
		{"report.csv", "7", "report_7.csv"},
		{"report.csv", "", "report.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reportFileName(tt.base, tt.build), "base %q build %q", tt.base, tt.build)
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(nil))
	assert.Equal(t, []string{"a", "b", "c", "d"}, splitList([]string{"a,b", " c ", "", "d,,"}))
}

func TestResolveSettingsPrecedence(t *testing.T) {
	file := &config.Config{
		Automation: config.Automation{Project: "ops-prj", Bucket: "file-bucket", ReportPrefix: "file-prefix"},
		Collection: config.Collection{RequiredAPI: "storage.googleapis.com", MaxConcurrency: 3},
		Mirror:     config.Mirror{S3Bucket: "copy"},
	}

	t.Run("config file fills gaps", func(t *testing.T) {
		v := viper.New()
		v.Set(keyCSVFileName, "out")
		v.Set(keyTextFileName, "out.jsonl")

		st := resolveSettings(v, file)
		assert.Equal(t, "file-bucket", st.Run.UploadBucket)
		assert.Equal(t, "file-prefix", st.Run.ReportPrefix)
		assert.Equal(t, 3, st.Run.MaxConcurrency)
		assert.Equal(t, "storage.googleapis.com", st.Run.RequiredAPI)
		assert.Equal(t, "ops-prj", st.Project)
		assert.Equal(t, "copy", st.Mirror.S3Bucket)
		assert.Equal(t, "out.csv", st.Run.CSVFileName)
		assert.Equal(t, "out.jsonl", st.Run.TextFileName)
		assert.Empty(t, st.Run.ProjectIDs)
	})

	t.Run("flags override config file", func(t *testing.T) {
		v := viper.New()
		v.Set(keyBucket, "flag-bucket")
		v.Set(keyReportPrefix, "flag-prefix")
		v.Set(keyMaxConcurrency, 8)
		v.Set(keyProjectIDs, "prj-a,prj-b prj-c")
		v.Set(keyCSVFileName, "out")
		v.Set(keyBuildNo, "12")
		v.Set(keyServiceAccount, "robot@ops-prj.iam.gserviceaccount.com")
		v.Set(keyProgress, true)

		st := resolveSettings(v, file)
		assert.Equal(t, "flag-bucket", st.Run.UploadBucket)
		assert.Equal(t, "flag-prefix", st.Run.ReportPrefix)
		assert.Equal(t, 8, st.Run.MaxConcurrency)
		assert.Equal(t, []string{"prj-a", "prj-b", "prj-c"}, st.Run.ProjectIDs)
		assert.Equal(t, "out_12.csv", st.Run.CSVFileName)
		assert.Equal(t, "12", st.Run.BuildNo)
		assert.Equal(t, "robot@ops-prj.iam.gserviceaccount.com", st.ServiceAccount)
		assert.True(t, st.Progress)
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud")
	assert.Error(t, err)
}
