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

package publisher

import (
	"path"
	"strings"
)

// Namespace is the XML namespace of cics.xml.
const Namespace = "http://www.ibm.com/xmlns/prod/cics/bundle"

// ManifestPath is the bundle-relative path of the manifest.
const ManifestPath = "META-INF/cics.xml"

// CICS resource type URIs.
const (
	TypeOSGiBundle   = Namespace + "/OSGIBUNDLE"
	TypeWARBundle    = Namespace + "/WARBUNDLE"
	TypeEARBundle    = Namespace + "/EARBUNDLE"
	TypeEBABundle    = Namespace + "/EBABUNDLE"
	TypeEventBinding = Namespace + "/EVENTBINDING"
	TypeEPAdapter    = Namespace + "/EPADAPTER"
	TypeEPAdapterSet = Namespace + "/EPADAPTERSET"
	TypePolicy       = Namespace + "/POLICY"
	TypeURIMap       = Namespace + "/URIMAP"
	TypeProgram      = Namespace + "/PROGRAM"
	TypeTransaction  = Namespace + "/TRANSACTION"
	TypeLibrary      = Namespace + "/LIBRARY"
	TypeFile         = Namespace + "/FILE"
	TypeTCPIPService = Namespace + "/TCPIPSERVICE"
	TypeJVMServer    = Namespace + "/JVMSERVER"
	TypePackageSet   = Namespace + "/PACKAGESET"
	TypePipeline     = Namespace + "/PIPELINE"
	TypeXSDBind      = Namespace + "/XSDBIND"
)

// staticTypes maps static resource file extensions to the CICS resource
// type they define.
var staticTypes = map[string]string{
	"evbind":       TypeEventBinding,
	"epadapter":    TypeEPAdapter,
	"epadapterset": TypeEPAdapterSet,
	"policy":       TypePolicy,
	"urimap":       TypeURIMap,
	"program":      TypeProgram,
	"transaction":  TypeTransaction,
	"library":      TypeLibrary,
	"file":         TypeFile,
	"tcpipservice": TypeTCPIPService,
	"jvmserver":    TypeJVMServer,
	"package":      TypePackageSet,
	"pipeline":     TypePipeline,
	"xsdbind":      TypeXSDBind,
}

// StaticResourceType returns the CICS type defined by a static resource at
// rel, or "" when the file is copied without a define.
func StaticResourceType(rel string) string {
	base := path.Base(rel)
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return staticTypes[base[i+1:]]
}

// Resource is a generated bundle part: an XML descriptor defined in the
// manifest and, for Java parts, the artifact it references.
type Resource struct {
	// Name is the resource name used in the manifest define.
	Name string `json:"name" yaml:"name"`

	// Type is the CICS resource type URI.
	Type string `json:"type" yaml:"type"`

	// DescriptorPath is the bundle-relative path of the descriptor.
	DescriptorPath string `json:"descriptorPath" yaml:"descriptorPath"`

	// Descriptor is the descriptor content.
	Descriptor []byte `json:"-" yaml:"-"`

	// Binary is the source file copied into the bundle, empty when the part
	// has no binary.
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty"`

	// BinaryPath is the bundle-relative destination of Binary.
	BinaryPath string `json:"binaryPath,omitempty" yaml:"binaryPath,omitempty"`
}

// Define is one <define> entry of cics.xml.
type Define struct {
	Name string `xml:"name,attr" json:"name" yaml:"name"`
	Type string `xml:"type,attr" json:"type" yaml:"type"`
	Path string `xml:"path,attr" json:"path" yaml:"path"`
}
