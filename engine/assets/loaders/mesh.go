package loaders

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/math"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
)

// DefaultMaxLineLength is the longest mesh file line accepted when the
// load params do not say otherwise.
const DefaultMaxLineLength = 256

var (
	ErrLineTooLong   = errors.New("line too long")
	ErrMalformedLine = errors.New("malformed line")
	ErrFaceIndex     = errors.New("face index out of range")
	ErrInvalidParams = errors.New("invalid mesh load params")
)

// MeshLoader reads the plain text v/f triangle format:
//
//	v x y z
//	f a b c
//
// Face indices are 1-based and refer to vertices declared above the face.
type MeshLoader struct{}

func (ml *MeshLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType != metadata.ResourceTypeMesh {
		return nil, fmt.Errorf("mesh loader cannot load %s resources: %w", assetType, ErrInvalidParams)
	}

	p := &metadata.MeshLoadParams{}
	switch v := params.(type) {
	case nil:
	case *metadata.MeshLoadParams:
		if v != nil {
			p = v
		}
	case metadata.MeshLoadParams:
		p = &v
	default:
		return nil, fmt.Errorf("failed to cast params in mesh loader: %w", ErrInvalidParams)
	}

	name := p.ResourceName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", core.ErrAssetNotFound, path, err)
		}
		return nil, err
	}

	mesh, err := ParseMesh(name, bytes.NewReader(data), p.MaxLineLength)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", path, err)
	}

	core.LogDebug("loaded mesh '%s' from %s with %d triangles", mesh.Name, path, mesh.TriangleCount())

	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     mesh,
	}, nil
}

func (ml *MeshLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

/**
 * @brief Parses a mesh from r. Errors carry the 1-based line number as
 * "line: error".
 *
 * @param name The name given to the resulting mesh.
 * @param r The source.
 * @param maxLine The longest line accepted in bytes. 0 selects DefaultMaxLineLength.
 * @return The mesh, or an error wrapping ErrLineTooLong, ErrMalformedLine or ErrFaceIndex.
 */
func ParseMesh(name string, r io.Reader, maxLine int) (*metadata.Mesh, error) {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineLength
	}

	scanner := bufio.NewScanner(r)
	// Room for the line terminator, so a line of exactly maxLine bytes still fits.
	scanner.Buffer(make([]byte, 0, maxLine+2), maxLine+2)

	mesh := metadata.NewMesh(name)
	verts := make([]math.Vec4, 0, 64)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) > maxLine {
			return nil, fmt.Errorf("%d: %w (%d > %d bytes)", lineNo, ErrLineTooLong, len(line), maxLine)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%d: %w", lineNo, err)
			}
			verts = append(verts, v)
		case "f":
			tri, err := parseFace(fields[1:], verts)
			if err != nil {
				return nil, fmt.Errorf("%d: %w", lineNo, err)
			}
			mesh.Triangles = append(mesh.Triangles, tri)
		default:
			// comments, normals, texture coordinates, groups...
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%d: %w", lineNo+1, ErrLineTooLong)
		}
		return nil, err
	}

	return mesh, nil
}

func parseVertex(fields []string) (math.Vec4, error) {
	if len(fields) != 3 {
		return math.Vec4{}, fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrMalformedLine, len(fields))
	}
	var xyz [3]float32
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return math.Vec4{}, fmt.Errorf("%w: vertex coordinate %q", ErrMalformedLine, f)
		}
		xyz[i] = float32(n)
	}
	return math.NewVec4Point(xyz[0], xyz[1], xyz[2]), nil
}

func parseFace(fields []string, verts []math.Vec4) (metadata.Triangle, error) {
	if len(fields) != 3 {
		return metadata.Triangle{}, fmt.Errorf("%w: face needs 3 indices, got %d", ErrMalformedLine, len(fields))
	}
	tri := metadata.Triangle{}
	for i, f := range fields {
		// "3/1/2" keeps the vertex index only
		idx, _, _ := strings.Cut(f, "/")
		n, err := strconv.Atoi(idx)
		if err != nil {
			return metadata.Triangle{}, fmt.Errorf("%w: face index %q", ErrMalformedLine, f)
		}
		if n < 1 || n > len(verts) {
			return metadata.Triangle{}, fmt.Errorf("%w: %d not in [1, %d]", ErrFaceIndex, n, len(verts))
		}
		tri.P[i] = verts[n-1]
	}
	return tri, nil
}
