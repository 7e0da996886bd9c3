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

// Package ocitest provides an in-memory OCI distribution registry for tests.
package ocitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
)

// Registry serves the blob upload and manifest endpoints that a push uses.
type Registry struct {
	*httptest.Server

	mu        sync.Mutex
	blobs     map[string][]byte
	manifests map[string]manifest
	tags      map[string]string
	uploads   map[string]bool
}

type manifest struct {
	mediaType string
	data      []byte
}

// NewRegistry starts a registry that is closed when the test ends.
func NewRegistry(t testing.TB) *Registry {
	t.Helper()
	r := &Registry{
		blobs:     map[string][]byte{},
		manifests: map[string]manifest{},
		tags:      map[string]string{},
		uploads:   map[string]bool{},
	}
	r.Server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.Close)
	return r
}

// Host returns the host:port of the registry.
func (r *Registry) Host() string {
	return strings.TrimPrefix(r.URL, "http://")
}

// Manifest returns the manifest tagged tag in repo.
func (r *Registry) Manifest(repo, tag string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dgst, ok := r.tags[repo+":"+tag]
	if !ok {
		return nil, false
	}
	m, ok := r.manifests[repo+"@"+dgst]
	return m.data, ok
}

// Blob returns the blob with the given digest.
func (r *Registry) Blob(dgst string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blobs[dgst]
	return b, ok
}

func (r *Registry) serve(w http.ResponseWriter, req *http.Request) {
	p := strings.TrimPrefix(req.URL.Path, "/v2/")
	if p == req.URL.Path {
		http.NotFound(w, req)
		return
	}

	switch {
	case strings.Contains(p, "/blobs/uploads/"):
		i := strings.LastIndex(p, "/blobs/uploads/")
		r.upload(w, req, p[:i], p[i+len("/blobs/uploads/"):])
	case strings.Contains(p, "/blobs/"):
		i := strings.LastIndex(p, "/blobs/")
		r.blob(w, req, p[i+len("/blobs/"):])
	case strings.Contains(p, "/manifests/"):
		i := strings.LastIndex(p, "/manifests/")
		r.manifest(w, req, p[:i], p[i+len("/manifests/"):])
	default:
		http.NotFound(w, req)
	}
}

func (r *Registry) upload(w http.ResponseWriter, req *http.Request, repo, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case req.Method == http.MethodPost && id == "":
		id = uuid.NewString()
		r.uploads[id] = true
		w.Header().Set("Location", "/v2/"+repo+"/blobs/uploads/"+id)
		w.WriteHeader(http.StatusAccepted)
	case req.Method == http.MethodPut && r.uploads[id]:
		data, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		want := req.URL.Query().Get("digest")
		if got := digest.FromBytes(data).String(); got != want {
			http.Error(w, "digest mismatch", http.StatusBadRequest)
			return
		}
		delete(r.uploads, id)
		r.blobs[want] = data
		w.Header().Set("Docker-Content-Digest", want)
		w.WriteHeader(http.StatusCreated)
	default:
		http.Error(w, "unsupported upload request", http.StatusMethodNotAllowed)
	}
}

func (r *Registry) blob(w http.ResponseWriter, req *http.Request, dgst string) {
	r.mu.Lock()
	data, ok := r.blobs[dgst]
	r.mu.Unlock()

	if !ok {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Docker-Content-Digest", dgst)
	if req.Method == http.MethodGet {
		_, _ = w.Write(data)
	}
}

func (r *Registry) manifest(w http.ResponseWriter, req *http.Request, repo, ref string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.Method == http.MethodPut {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dgst := digest.FromBytes(data).String()
		r.manifests[repo+"@"+dgst] = manifest{mediaType: req.Header.Get("Content-Type"), data: data}
		if !strings.HasPrefix(ref, "sha256:") {
			r.tags[repo+":"+ref] = dgst
		}
		w.Header().Set("Docker-Content-Digest", dgst)
		w.WriteHeader(http.StatusCreated)
		return
	}

	dgst := ref
	if !strings.HasPrefix(ref, "sha256:") {
		dgst = r.tags[repo+":"+ref]
	}
	m, ok := r.manifests[repo+"@"+dgst]
	if !ok {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", m.mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(m.data)))
	w.Header().Set("Docker-Content-Digest", dgst)
	if req.Method == http.MethodGet {
		_, _ = w.Write(m.data)
	}
}
