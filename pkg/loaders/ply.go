package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PLYMesh contains the triangle data loaded from a PLY file. Polygon faces
// are split into triangle fans.
type PLYMesh struct {
	Vertices []core.Vec3
	Faces    [][3]int // Vertex indices, one entry per triangle
}

// TriangleCount returns the number of triangles in the mesh
func (m *PLYMesh) TriangleCount() int {
	return len(m.Faces)
}

// plyProperty represents a property definition in the PLY header
type plyProperty struct {
	name      string
	dataType  string
	isList    bool
	countType string // For list properties, the type of the count
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

type plyHeader struct {
	format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	elements []plyElement
}

// LoadPLY loads vertex positions and faces from a PLY file
func LoadPLY(filename string) (*PLYMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("PLY file %s: %w", filename, err)
	}
	return mesh, nil
}

// ReadPLY parses a PLY stream. Only vertex x/y/z and the face vertex index
// list are kept; every other element and property is skipped.
func ReadPLY(r io.Reader) (*PLYMesh, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.format {
	case "ascii":
		values = &asciiValueReader{reader: reader}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.format)
	}

	mesh := &PLYMesh{}
	for _, element := range header.elements {
		switch element.name {
		case "vertex":
			err = readVertices(values, element, mesh)
		case "face":
			err = readFaces(values, element, mesh)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s data: %w", element.name, err)
		}
	}

	for i, face := range mesh.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(mesh.Vertices) {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d vertices",
					i, idx, len(mesh.Vertices))
			}
		}
	}

	return mesh, nil
}

// parsePLYHeader reads header lines up to and including end_header, leaving
// the reader positioned at the first byte of element data
func parsePLYHeader(reader *bufio.Reader) (*plyHeader, error) {
	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("not a PLY file")
	}

	header := &plyHeader{}
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unexpected end of header: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, fmt.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			header.format = fields[1]
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid %s count %q", fields[1], fields[2])
			}
			header.elements = append(header.elements, plyElement{name: fields[1], count: count})
		case "property":
			if len(header.elements) == 0 {
				return nil, fmt.Errorf("property before any element")
			}
			prop, err := parsePLYProperty(fields)
			if err != nil {
				return nil, err
			}
			last := &header.elements[len(header.elements)-1]
			last.props = append(last.props, prop)
		case "end_header":
			if header.format == "" {
				return nil, fmt.Errorf("missing format line")
			}
			return header, nil
		case "comment", "obj_info":
		default:
			return nil, fmt.Errorf("unknown header keyword %q", fields[0])
		}
	}
}

func parsePLYProperty(fields []string) (plyProperty, error) {
	if len(fields) >= 5 && fields[1] == "list" {
		prop := plyProperty{name: fields[4], dataType: fields[3], isList: true, countType: fields[2]}
		if typeSize(prop.countType) == 0 || typeSize(prop.dataType) == 0 {
			return prop, fmt.Errorf("unsupported list types %s %s", prop.countType, prop.dataType)
		}
		return prop, nil
	}
	if len(fields) != 3 {
		return plyProperty{}, fmt.Errorf("invalid property line: %q", strings.Join(fields, " "))
	}
	prop := plyProperty{name: fields[2], dataType: fields[1]}
	if typeSize(prop.dataType) == 0 {
		return prop, fmt.Errorf("unsupported data type: %s", prop.dataType)
	}
	return prop, nil
}

func readVertices(values plyValueReader, element plyElement, mesh *PLYMesh) error {
	xi, yi, zi := -1, -1, -1
	for i, prop := range element.props {
		switch prop.name {
		case "x":
			xi = i
		case "y":
			yi = i
		case "z":
			zi = i
		}
	}
	if xi < 0 || yi < 0 || zi < 0 {
		return fmt.Errorf("vertex element is missing x, y or z")
	}

	mesh.Vertices = make([]core.Vec3, 0, element.count)
	row := make([]float64, len(element.props))
	for v := 0; v < element.count; v++ {
		for i, prop := range element.props {
			if prop.isList {
				if err := skipList(values, prop); err != nil {
					return err
				}
				continue
			}
			val, err := values.read(prop.dataType)
			if err != nil {
				return err
			}
			row[i] = val
		}
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(row[xi], row[yi], row[zi]))
	}
	return nil
}

func readFaces(values plyValueReader, element plyElement, mesh *PLYMesh) error {
	listIndex := -1
	for i, prop := range element.props {
		if prop.isList && (prop.name == "vertex_indices" || prop.name == "vertex_index") {
			listIndex = i
		}
	}
	if listIndex < 0 {
		return fmt.Errorf("face element has no vertex_indices list")
	}

	indices := make([]int, 0, 4)
	for f := 0; f < element.count; f++ {
		for i, prop := range element.props {
			if i != listIndex {
				if err := skipProperty(values, prop); err != nil {
					return err
				}
				continue
			}

			count, err := values.read(prop.countType)
			if err != nil {
				return err
			}
			indices = indices[:0]
			for k := 0; k < int(count); k++ {
				idx, err := values.read(prop.dataType)
				if err != nil {
					return err
				}
				indices = append(indices, int(idx))
			}
			if len(indices) < 3 {
				return fmt.Errorf("face %d has %d vertices", f, len(indices))
			}
			for k := 1; k+1 < len(indices); k++ {
				mesh.Faces = append(mesh.Faces, [3]int{indices[0], indices[k], indices[k+1]})
			}
		}
	}
	return nil
}

func skipElement(values plyValueReader, element plyElement) error {
	for n := 0; n < element.count; n++ {
		for _, prop := range element.props {
			if err := skipProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipProperty(values plyValueReader, prop plyProperty) error {
	if prop.isList {
		return skipList(values, prop)
	}
	_, err := values.read(prop.dataType)
	return err
}

func skipList(values plyValueReader, prop plyProperty) error {
	count, err := values.read(prop.countType)
	if err != nil {
		return err
	}
	for k := 0; k < int(count); k++ {
		if _, err := values.read(prop.dataType); err != nil {
			return err
		}
	}
	return nil
}

// typeSize returns the size in bytes of a PLY scalar type, 0 if unknown
func typeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// plyValueReader reads one scalar of the given PLY type as float64
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type binaryValueReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValueReader) read(dataType string) (float64, error) {
	n := typeSize(dataType)
	if n == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	buf := b.buf[:n]
	if _, err := io.ReadFull(b.reader, buf); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	default: // double
		return math.Float64frombits(b.order.Uint64(buf)), nil
	}
}

// asciiValueReader reads whitespace separated tokens across lines
type asciiValueReader struct {
	reader *bufio.Reader
	tokens []string
}

func (a *asciiValueReader) read(dataType string) (float64, error) {
	for len(a.tokens) == 0 {
		line, err := a.reader.ReadString('\n')
		a.tokens = strings.Fields(line)
		if err != nil && len(a.tokens) == 0 {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
	}

	token := a.tokens[0]
	a.tokens = a.tokens[1:]
	val, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, token)
	}
	return val, nil
}
