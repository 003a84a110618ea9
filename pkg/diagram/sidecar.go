package diagram

import (
	"encoding/json"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/model"
)

// SidecarVersion is the current sidecar format version. It is tracked
// independently of the element file version.
const SidecarVersion = 1

type sidecar struct {
	Version int          `json:"version"`
	Nodes   []nodeRecord `json:"nodes"`
	Edges   []edgeRecord `json:"edges"`
}

type nodeRecord struct {
	Element  string `json:"element"`
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
	Style    Style  `json:"style"`
}

type edgeRecord struct {
	Link    string  `json:"link"`
	Node1   string  `json:"node1"`
	Node2   string  `json:"node2"`
	Routing Routing `json:"routing"`
	Points  []Point `json:"points"`
	Style   Style   `json:"style"`
}

type cachedSidecar struct {
	modTime time.Time
	size    int64
	doc     *sidecar
}

// DefaultSidecarCacheSize is the number of parsed sidecars a cache keeps
// when no size is given.
const DefaultSidecarCacheSize = 256

// SidecarCache keeps parsed sidecar files keyed by path. An entry is only
// reused while the file keeps the modification time and size it was read
// at. A nil *SidecarCache reads every file from disk.
type SidecarCache struct {
	entries *lru.Cache[string, cachedSidecar]
}

// NewSidecarCache returns a cache holding at most size parsed files. A
// size of zero or less selects [DefaultSidecarCacheSize].
func NewSidecarCache(size int) (*SidecarCache, error) {
	if size <= 0 {
		size = DefaultSidecarCacheSize
	}
	entries, err := lru.New[string, cachedSidecar](size)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeContract, err, "sidecar cache")
	}
	return &SidecarCache{entries: entries}, nil
}

// Len returns the number of cached files.
func (c *SidecarCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// read returns the parsed sidecar at path, or nil when the file does not
// exist. The returned document is shared and must not be modified.
func (c *SidecarCache) read(path string) (*sidecar, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "stat %s", path)
	}
	if c != nil {
		if e, ok := c.entries.Get(path); ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
			return e.doc, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read %s", path)
	}
	doc := &sidecar{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, model.ParseError(path, err)
	}
	if doc.Version > SidecarVersion {
		return nil, errs.New(errs.ErrCodeParse, "%s: sidecar version %d is newer than %d", path, doc.Version, SidecarVersion)
	}
	if c != nil {
		c.entries.Add(path, cachedSidecar{modTime: info.ModTime(), size: info.Size(), doc: doc})
	}
	return doc, nil
}

func (c *SidecarCache) forget(path string) {
	if c != nil {
		c.entries.Remove(path)
	}
}

func encodeSidecar(nodes []*Node, edges []*Edge) ([]byte, error) {
	doc := sidecar{
		Version: SidecarVersion,
		Nodes:   make([]nodeRecord, 0, len(nodes)),
		Edges:   make([]edgeRecord, 0, len(edges)),
	}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, nodeRecord{
			Element:  n.element.ID().String(),
			Position: n.Position,
			Size:     n.Size,
			Style:    n.Style,
		})
	}
	for _, e := range edges {
		doc.Edges = append(doc.Edges, edgeRecord{
			Link:    e.link.ID().String(),
			Node1:   e.node1.element.ID().String(),
			Node2:   e.node2.element.ID().String(),
			Routing: e.Routing,
			Points:  e.Points,
			Style:   e.Style,
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeContract, err, "encode sidecar")
	}
	return append(data, '\n'), nil
}

