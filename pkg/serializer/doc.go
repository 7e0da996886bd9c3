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

// Package serializer writes command results as text, JSON, YAML or a table.
//
//	w, err := serializer.NewFileWriterOrStdout(serializer.FormatJSON, path)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	if err := w.Serialize(ctx, out); err != nil {
//		return err
//	}
//
// The text format prints the Summary of values implementing Summarizer and
// falls back to the table format otherwise. Table rows use the JSON field
// names flattened with dots, e.g. "archive.size_bytes" or "parts.[0].name".
package serializer
