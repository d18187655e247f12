package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vietdv277/bucketscope/internal/config"
	"github.com/vietdv277/bucketscope/internal/inventory"
)

// settings is everything a command needs, resolved with the precedence
// flag > environment > config file > default.
type settings struct {
	Run            inventory.RunConfig
	ServiceAccount string
	Project        string // Automation project
	LogLevel       string
	Progress       bool
	Mirror         config.Mirror
}

// resolveSettings merges viper values over the config file
func resolveSettings(v *viper.Viper, file *config.Config) settings {
	s := settings{
		ServiceAccount: v.GetString(keyServiceAccount),
		Project:        file.Automation.Project,
		LogLevel:       v.GetString(keyLogLevel),
		Progress:       v.GetBool(keyProgress),
		Mirror:         file.Mirror,
	}

	s.Run = inventory.RunConfig{
		ProjectIDs:          splitList(v.GetStringSlice(keyProjectIDs)),
		RequiredAPI:         file.Collection.RequiredAPI,
		RequiredPermissions: file.Collection.RequiredPermissions,
		TextFileName:        v.GetString(keyTextFileName),
		CSVFileName:         reportFileName(v.GetString(keyCSVFileName), v.GetString(keyBuildNo)),
		UploadBucket:        firstNonEmpty(v.GetString(keyBucket), file.Automation.Bucket),
		ReportPrefix:        firstNonEmpty(v.GetString(keyReportPrefix), file.Automation.ReportPrefix),
		BuildNo:             v.GetString(keyBuildNo),
		MaxConcurrency:      file.Collection.MaxConcurrency,
	}
	if v.IsSet(keyMaxConcurrency) && v.GetInt(keyMaxConcurrency) > 0 {
		s.Run.MaxConcurrency = v.GetInt(keyMaxConcurrency)
	}

	return s
}

// reportFileName appends the _<build> suffix and the .csv extension
func reportFileName(base, build string) string {
	name := strings.TrimSuffix(base, ".csv")
	if build != "" {
		name += "_" + build
	}
	return name + ".csv"
}

// splitList flattens comma or space separated entries, dropping blanks.
// Environment variables arrive as one string, flags as a slice.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })...)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// newLogger builds a production JSON logger at level, writing to the given
// output paths (stderr when none).
func newLogger(level string, outputs ...string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(outputs) > 0 {
		cfg.OutputPaths = outputs
		cfg.ErrorOutputPaths = outputs
	}
	return cfg.Build()
}
