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

package serializer

import "context"

// ConfigMapURIScheme prefixes output and input locations stored in a
// Kubernetes ConfigMap, e.g. cm://docs/implementors.
const ConfigMapURIScheme = "cm://"

// DocumentDataKey is the ConfigMap data key prefix a document is stored
// under; the format extension is appended, e.g. "document.yaml".
const DocumentDataKey = "document"

// Serializer writes a docxref document (listing, index or report).
//
// The context bounds implementations that perform I/O, such as ConfigMap
// writes.
type Serializer interface {
	Serialize(ctx context.Context, doc any) error
}

// Closer is an optional interface that Serializers can implement
// if they need to release resources (e.g., close file handles).
type Closer interface {
	Close() error
}
