package pluginutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

var segmentRe = regexp.MustCompile(`^(?P<key>[^\[]+)(?P<idx>\[(?P<num>-?\d+)\])?$`)

// Segment is one step of a mapping field such as "messages[-1].content".
type Segment struct {
	Key      string
	Index    int
	HasIndex bool
}

func ParseMappingField(field string) ([]Segment, error) {
	if strings.TrimSpace(field) == "" {
		return nil, fmt.Errorf("mapping field cannot be empty")
	}
	parts := strings.Split(field, ".")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		m := segmentRe.FindStringSubmatch(part)
		if len(m) == 0 {
			return nil, fmt.Errorf("invalid mapping field segment %q", part)
		}
		seg := Segment{Key: m[1]}
		if m[3] != "" {
			idx, err := strconv.Atoi(m[3])
			if err != nil {
				return nil, fmt.Errorf("invalid index in segment %q: %w", part, err)
			}
			seg.Index = idx
			seg.HasIndex = true
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// StringLeaf is a string value inside a JSON document, kept together with
// its parent so it can be replaced in place.
type StringLeaf struct {
	Path   string
	Text   string
	parent *fastjson.Value
	key    string
	index  int
}

// IsRoot reports whether the document itself is the string.
func (l StringLeaf) IsRoot() bool {
	return l.parent == nil
}

// Replace swaps the leaf for v inside its parent. Root leaves cannot be
// replaced and report false.
func (l StringLeaf) Replace(v *fastjson.Value) bool {
	if l.parent == nil {
		return false
	}
	switch l.parent.Type() {
	case fastjson.TypeObject:
		l.parent.Set(l.key, v)
		return true
	case fastjson.TypeArray:
		l.parent.SetArrayItem(l.index, v)
		return true
	}
	return false
}

// CollectStringLeaves walks the document depth first and returns every
// string value in document order.
func CollectStringLeaves(root *fastjson.Value) []StringLeaf {
	var out []StringLeaf
	collect(root, "", nil, "", -1, &out)
	return out
}

func collect(v *fastjson.Value, path string, parent *fastjson.Value, key string, index int, out *[]StringLeaf) {
	switch v.Type() {
	case fastjson.TypeString:
		*out = append(*out, StringLeaf{
			Path:   path,
			Text:   string(v.GetStringBytes()),
			parent: parent,
			key:    key,
			index:  index,
		})
	case fastjson.TypeObject:
		obj, _ := v.Object()
		obj.Visit(func(k []byte, child *fastjson.Value) {
			name := string(k)
			childPath := name
			if path != "" {
				childPath = path + "." + name
			}
			collect(child, childPath, v, name, -1, out)
		})
	case fastjson.TypeArray:
		items, _ := v.Array()
		for i, child := range items {
			collect(child, fmt.Sprintf("%s[%d]", path, i), v, "", i, out)
		}
	}
}

// LookupStringLeaf follows the segments from root. Negative indexes count
// from the end of the array. It reports false when the path is missing or
// does not end on a string.
func LookupStringLeaf(root *fastjson.Value, segments []Segment) (StringLeaf, bool) {
	current := root
	var (
		parent *fastjson.Value
		key    string
		index  = -1
		path   []string
	)
	for _, seg := range segments {
		if current.Type() != fastjson.TypeObject {
			return StringLeaf{}, false
		}
		next := current.Get(seg.Key)
		if next == nil {
			return StringLeaf{}, false
		}
		parent, key, index = current, seg.Key, -1
		path = append(path, seg.Key)
		current = next

		if !seg.HasIndex {
			continue
		}
		items, err := current.Array()
		if err != nil {
			return StringLeaf{}, false
		}
		idx := seg.Index
		if idx < 0 {
			idx = len(items) + idx
		}
		if idx < 0 || idx >= len(items) {
			return StringLeaf{}, false
		}
		parent, key, index = current, "", idx
		path[len(path)-1] = fmt.Sprintf("%s[%d]", seg.Key, idx)
		current = items[idx]
	}
	if current.Type() != fastjson.TypeString {
		return StringLeaf{}, false
	}
	return StringLeaf{
		Path:   strings.Join(path, "."),
		Text:   string(current.GetStringBytes()),
		parent: parent,
		key:    key,
		index:  index,
	}, true
}
