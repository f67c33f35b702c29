package mesh

import _ "embed"

// GPUVertexSource is the WGSL definition of the VertexInput struct, matching Vertex.
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string
