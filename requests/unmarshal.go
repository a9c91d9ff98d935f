package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/adapters"
)

var ErrUnknownNodeType = errors.New("unknown node type")

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (filetree.NodeType, error) {
	var meta struct {
		Type filetree.NodeType `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Type, nil
}

// UnmarshalFileRequest handles file-specific unmarshaling with sources.
// Each source is turned into a provider through reg.
func UnmarshalFileRequest(reg *adapters.Registry, data []byte) (*filetree.FileCreateRequest, error) {
	var dto FileRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	sources, err := unmarshalSources(reg, dto.Sources, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dto.Path, err)
	}

	return &filetree.FileCreateRequest{
		NodeRequest: convertNodeDTO(dto.NodeRequestDTO),
		Sources:     sources,
	}, nil
}

// UnmarshalDirRequest handles explicit directory unmarshaling (no sources)
func UnmarshalDirRequest(data []byte) (*filetree.DirCreateRequest, error) {
	var dto DirRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	return &filetree.DirCreateRequest{
		NodeRequest: convertNodeDTO(dto.NodeRequestDTO),
	}, nil
}

// UnmarshalManifest parses a JSON array of node requests.
func UnmarshalManifest(reg *adapters.Registry, data []byte) (*Manifest, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	m := &Manifest{}
	for i, raw := range entries {
		nodeType, err := GetNodeType(raw)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		switch nodeType {
		case filetree.DirNodeType:
			req, err := UnmarshalDirRequest(raw)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			m.Dirs = append(m.Dirs, req)
		case filetree.FileNodeType:
			req, err := UnmarshalFileRequest(reg, raw)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			m.Files = append(m.Files, req)
		default:
			return nil, fmt.Errorf("entry %d: %w: %q", i, ErrUnknownNodeType, nodeType)
		}
	}
	return m, nil
}

// LoadManifestFile reads a manifest from a .json, .yaml or .yml file.
// YAML manifests are converted to JSON so both go through the same decoders.
func LoadManifestFile(reg *adapters.Registry, path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML manifest %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert YAML manifest %s: %w", path, err)
		}
	case ".json":
	default:
		return nil, fmt.Errorf("unsupported manifest file format: %s (supported: .json, .yaml, .yml)", ext)
	}

	m, err := UnmarshalManifest(reg, data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// Helper function to process sources array
func unmarshalSources(reg *adapters.Registry, sourceDTOs []SourceConfigDTO, rawData []byte) ([]filetree.ContentSource, error) {
	// Extract raw sources array from JSON for adapter registry
	var rawMessage struct {
		Sources []json.RawMessage `json:"sources"`
	}
	if err := json.Unmarshal(rawData, &rawMessage); err != nil {
		return nil, err
	}

	sources := make([]filetree.ContentSource, 0, len(rawMessage.Sources))
	for i, rawSource := range rawMessage.Sources {
		provider, err := reg.NewProvider(rawSource)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}

		// Apply priority default
		priority := i
		if sourceDTOs[i].Priority != nil {
			priority = *sourceDTOs[i].Priority
		}

		sources = append(sources, filetree.ContentSource{
			ContentProvider: provider,
			Priority:        priority,
		})
	}

	return sources, nil
}

func convertNodeDTO(dto NodeRequestDTO) filetree.NodeRequest {
	return filetree.NodeRequest{
		Path: dto.Path,
		Type: dto.Type,
		UUID: valueOrDefault(dto.UUID, uuid.New().String()),
	}
}

func valueOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultVal
}
