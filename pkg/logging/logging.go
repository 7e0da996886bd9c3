// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvLogLevel overrides the level passed by the caller when set.
	EnvLogLevel = "LOG_LEVEL"

	// FormatJSON renders one JSON object per record.
	FormatJSON = "json"
	// FormatText renders logfmt-style key=value records.
	FormatText = "text"
)

// ParseLogLevel converts a level name into a slog.Level.
// Unknown values fall back to Info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// resolveLevel applies the LOG_LEVEL override on top of level.
func resolveLevel(level string) slog.Level {
	if env := os.Getenv(EnvLogLevel); env != "" {
		return ParseLogLevel(env)
	}
	return ParseLogLevel(level)
}

// NewLogger returns a logger writing records in the given format to w.
// Debug level adds source locations.
func NewLogger(w io.Writer, format, module, version, level string) *slog.Logger {
	lvl := resolveLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	var h slog.Handler
	if strings.EqualFold(format, FormatText) {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

// SetDefaultLogger makes a logger writing to w in format the slog default.
func SetDefaultLogger(w io.Writer, format, module, version, level string) {
	slog.SetDefault(NewLogger(w, format, module, version, level))
}
