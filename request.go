package filetree

// NodeRequest has common fields embedded in concrete request types
type NodeRequest struct {
	Path string
	Type NodeType
	UUID string // Optional request identifier for correlating load results
}

type FileCreateRequest struct {
	NodeRequest
	Sources []ContentSource `json:"sources"`
}

type DirCreateRequest struct {
	NodeRequest
}
