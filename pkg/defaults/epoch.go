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

package defaults

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// FallbackArchiveTime is the entry time written into archives when
// SOURCE_DATE_EPOCH is not set. Zip cannot represent times before 1980.
var FallbackArchiveTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// SourceDateEpoch returns the time pinned by SOURCE_DATE_EPOCH, if any.
// Unparsable values are ignored.
func SourceDateEpoch() (time.Time, bool) {
	v := strings.TrimSpace(os.Getenv(EnvSourceDateEpoch))
	if v == "" {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}
