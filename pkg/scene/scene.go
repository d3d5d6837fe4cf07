package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rio-labs/rioterm/pkg/protocol"
)

// ErrUnknownFormat is returned when a scene file's extension is neither
// YAML nor JSON.
var ErrUnknownFormat = errors.New("unknown scene file format")

// NodeDef declares one node of a scene.
type NodeDef struct {
	// ID is the node's server-assigned id, unique within the scene.
	ID protocol.NodeID `yaml:"id" json:"id" bson:"id"`

	// Type is the component type tag.
	Type string `yaml:"type" json:"type" bson:"type"`

	// Attrs is the node's initial state: content, sizing, child
	// references, everything the component reads.
	Attrs map[string]any `yaml:"attrs,omitempty" json:"attrs,omitempty" bson:"attrs,omitempty"`
}

// Scene is one declarative UI definition.
type Scene struct {
	// Name identifies the scene in the library and in hello requests.
	Name string `yaml:"name" json:"name" bson:"_id"`

	// Description is a one-line summary for listings.
	Description string `yaml:"description,omitempty" json:"description,omitempty" bson:"description,omitempty"`

	// Root is the id of the designated root node.
	Root protocol.NodeID `yaml:"root" json:"root" bson:"root"`

	// Nodes declares every node the scene starts with.
	Nodes []NodeDef `yaml:"nodes" json:"nodes" bson:"nodes"`

	// Script names a scripted behavior driving the scene after the initial
	// batch. Empty means the scene is static.
	Script string `yaml:"script,omitempty" json:"script,omitempty" bson:"script,omitempty"`
}

// Load reads a scene file, choosing the decoder from the extension
// (.yaml/.yml or .json).
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}

	var s Scene
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse scene %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse scene %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, ext)
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &s, nil
}

// Validate checks the scene for structural problems: a missing or duplicate
// node id, an unknown root, an empty type, a type outside the catalog, or a
// child reference to an undeclared id. knownTags may be nil to skip the
// catalog check (the server validates against the client catalog it ships).
// All problems are reported together via [errors.Join].
func (s *Scene) Validate(knownTags []string) error {
	known := make(map[string]bool, len(knownTags))
	for _, tag := range knownTags {
		known[tag] = true
	}

	var errs []error
	ids := make(map[protocol.NodeID]bool, len(s.Nodes))
	for i, nd := range s.Nodes {
		if nd.ID == 0 {
			errs = append(errs, fmt.Errorf("node %d: missing id", i))
			continue
		}
		if ids[nd.ID] {
			errs = append(errs, fmt.Errorf("node %d: duplicate id %d", i, nd.ID))
		}
		ids[nd.ID] = true
		if nd.Type == "" {
			errs = append(errs, fmt.Errorf("node %d: missing type", nd.ID))
		} else if knownTags != nil && !known[nd.Type] {
			errs = append(errs, fmt.Errorf("node %d: unknown type %q", nd.ID, nd.Type))
		}
	}

	if s.Root == 0 {
		errs = append(errs, errors.New("missing root"))
	} else if !ids[s.Root] {
		errs = append(errs, fmt.Errorf("root %d is not a declared node", s.Root))
	}

	// Child references must land on declared nodes. The client would treat
	// a dangling id as recoverable, but a scene file shipping one is a bug.
	for _, nd := range s.Nodes {
		for attr, v := range nd.Attrs {
			if !childAttr(attr) {
				continue
			}
			for _, id := range protocol.ChildIDs(v) {
				if !ids[id] {
					errs = append(errs, fmt.Errorf("node %d: %s references undeclared node %d", nd.ID, attr, id))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// childAttr reports whether attr is one of the child-bearing attribute
// names of the built-in set. Mirrors the client's registry data; the server
// validates scene files without instantiating components.
func childAttr(attr string) bool {
	switch attr {
	case "children", "child", "content":
		return true
	}
	return false
}

// Compile turns the scene into its initial update batch: one delta per
// node, each carrying the reserved type tag key, with the root designated.
func (s *Scene) Compile() protocol.UpdateBatch {
	deltas := make(map[protocol.NodeID]protocol.Delta, len(s.Nodes))
	for _, nd := range s.Nodes {
		d := make(protocol.Delta, len(nd.Attrs)+1)
		for k, v := range nd.Attrs {
			d[k] = v
		}
		d[protocol.KeyTypeTag] = nd.Type
		deltas[nd.ID] = d
	}
	return protocol.UpdateBatch{Deltas: deltas}.WithRoot(s.Root)
}

// Node returns the definition for id, or nil.
func (s *Scene) Node(id protocol.NodeID) *NodeDef {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}
