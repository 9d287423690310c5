package gobatch3d

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	FACE_NORMAL  = 0
	FACE_REVERSE = 1
)

var defaultFaceColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

func LoadArrayFromPLYFile(fileName string, reverse int) (*Array, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open PLY file %s: %w", fileName, err)
	}
	defer file.Close()

	arr, err := LoadArrayFromPLYReader(file, reverse)
	if err != nil {
		return nil, fmt.Errorf("error parsing PLY file %s: %w", fileName, err)
	}
	return arr, nil
}

// LoadArrayFromPLYReader reads an ASCII PLY mesh. Vertex normals, uvs and
// colors are used when present, polygons are split into triangle fans, and
// missing normals are averaged from the faces around each vertex.
func LoadArrayFromPLYReader(reader io.Reader, reverse int) (*Array, error) {
	scanner := bufio.NewScanner(reader)

	var vertexCount, faceCount int
	var currentElement string
	vertexProps := map[string]int{}
	var faceColorProps []string

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, fmt.Errorf("missing ply magic")
	}

	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 2 || parts[1] != "ascii" {
				return nil, fmt.Errorf("unsupported PLY format %q", strings.Join(parts[1:], " "))
			}
		case "element":
			if len(parts) == 3 {
				currentElement = parts[1]
				n, err := strconv.Atoi(parts[2])
				if err != nil {
					return nil, fmt.Errorf("invalid %s count: %w", parts[1], err)
				}
				if parts[1] == "vertex" {
					vertexCount = n
				} else if parts[1] == "face" {
					faceCount = n
				}
			}
		case "property":
			name := parts[len(parts)-1]
			if currentElement == "vertex" {
				vertexProps[name] = len(vertexProps)
			} else if currentElement == "face" && parts[1] != "list" {
				faceColorProps = append(faceColorProps, name)
			}
		case "end_header":
			goto endHeaderLoop
		}
	}
endHeaderLoop:

	_, hasNormals := vertexProps["nx"]
	_, hasColor := vertexProps["red"]
	uName, vName := "s", "t"
	if _, ok := vertexProps["u"]; ok {
		uName, vName = "u", "v"
	}
	_, hasUV := vertexProps[uName]

	arr := NewArray(Triangles, DefaultFormat)
	for i := 0; i < vertexCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file while reading vertices")
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < len(vertexProps) {
			return nil, fmt.Errorf("invalid vertex data on line %d", i)
		}
		get := func(name string) (float32, error) {
			f, err := strconv.ParseFloat(fields[vertexProps[name]], 32)
			return float32(f), err
		}

		var v Vertex
		for axis, name := range []string{"x", "y", "z"} {
			f, err := get(name)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			v.Position[axis] = f
		}
		if hasNormals {
			for axis, name := range []string{"nx", "ny", "nz"} {
				f, err := get(name)
				if err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				v.Normal[axis] = f
			}
		}
		if hasUV {
			for axis, name := range []string{uName, vName} {
				f, err := get(name)
				if err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				v.UVs[0][axis] = f
			}
		}
		v.Colors[0] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if hasColor {
			var rgb [3]uint8
			for c, name := range []string{"red", "green", "blue"} {
				n, err := strconv.ParseUint(fields[vertexProps[name]], 10, 8)
				if err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				rgb[c] = uint8(n)
			}
			v.Colors[0] = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
		}
		arr.AddVertex(v)
	}

	for i := 0; i < faceCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file while reading faces")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			return nil, fmt.Errorf("invalid face data on line %d", i)
		}
		numFaceVerts, err := strconv.Atoi(parts[0])
		if err != nil || numFaceVerts < 3 || len(parts) < numFaceVerts+1 {
			return nil, fmt.Errorf("invalid face data on line %d", i)
		}

		face := make([]uint32, numFaceVerts)
		for j := range face {
			idx, err := strconv.Atoi(parts[j+1])
			if err != nil || idx < 0 || idx >= vertexCount {
				return nil, fmt.Errorf("invalid vertex index %q on face %d", parts[j+1], i)
			}
			face[j] = uint32(idx)
		}
		if reverse == FACE_REVERSE {
			for l, r := 0, len(face)-1; l < r; l, r = l+1, r-1 {
				face[l], face[r] = face[r], face[l]
			}
		}

		if len(faceColorProps) >= 3 && !hasColor {
			col := defaultFaceColor
			rest := parts[numFaceVerts+1:]
			if len(rest) >= 3 {
				var rgb [3]uint8
				for c := range rgb {
					n, err := strconv.ParseUint(rest[c], 10, 8)
					if err != nil {
						return nil, fmt.Errorf("face %d color: %w", i, err)
					}
					rgb[c] = uint8(n)
				}
				col = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
			}
			for _, idx := range face {
				arr.VertexPtr(int(idx)).Colors[0] = col
			}
		}

		for j := 2; j < len(face); j++ {
			arr.AddTriangle(face[0], face[j-1], face[j])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from PLY source: %w", err)
	}

	if !hasNormals {
		computeVertexNormals(arr)
	}
	computeTangents(arr)
	arr.UpdateCache()
	return arr, nil
}

// computeVertexNormals sums the area weighted normal of every triangle into
// its three vertices.
func computeVertexNormals(arr *Array) {
	for i := 0; i < arr.VertexCount(); i++ {
		arr.VertexPtr(i).Normal = mgl32.Vec3{}
	}
	for i := 0; i+2 < arr.IndexCount(); i += 3 {
		i0, i1, i2 := arr.Index(i), arr.Index(i+1), arr.Index(i+2)
		p0 := arr.Vertex(int(i0)).Position
		n := arr.Vertex(int(i1)).Position.Sub(p0).Cross(arr.Vertex(int(i2)).Position.Sub(p0))
		for _, idx := range []uint32{i0, i1, i2} {
			v := arr.VertexPtr(int(idx))
			v.Normal = v.Normal.Add(n)
		}
	}
	for i := 0; i < arr.VertexCount(); i++ {
		v := arr.VertexPtr(i)
		v.Normal = safeNormalize(v.Normal)
	}
}

// computeTangents picks a tangent orthogonal to each normal.
func computeTangents(arr *Array) {
	for i := 0; i < arr.VertexCount(); i++ {
		v := arr.VertexPtr(i)
		if v.Tangent.Vec3().Len() != 0 {
			continue
		}
		axis := mgl32.Vec3{0, 1, 0}
		if abs32(v.Normal.Dot(axis)) > 0.9 {
			axis = mgl32.Vec3{1, 0, 0}
		}
		v.Tangent = safeNormalize(axis.Cross(v.Normal)).Vec4(1)
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// SavePLYFile writes src to fileName as ASCII PLY.
func SavePLYFile(fileName string, src Source) error {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("could not create PLY file %s: %w", fileName, err)
	}
	defer file.Close()

	if err := SavePLY(file, src); err != nil {
		return fmt.Errorf("error writing PLY file %s: %w", fileName, err)
	}
	return file.Close()
}

// SavePLY writes the triangles of src with per vertex normals, first uv set
// and first color, the layout LoadArrayFromPLYReader reads back.
func SavePLY(w io.Writer, src Source) error {
	if src.Primitive() != Triangles {
		return fmt.Errorf("cannot save %s as PLY faces", src.Primitive())
	}
	writer := bufio.NewWriter(w)

	numVertices := src.VertexCount()
	numFaces := src.IndexCount() / 3

	_, _ = fmt.Fprintln(writer, "ply")
	_, _ = fmt.Fprintln(writer, "format ascii 1.0")
	_, _ = fmt.Fprintln(writer, "comment Generated by gobatch3d")
	_, _ = fmt.Fprintf(writer, "element vertex %d\n", numVertices)
	for _, p := range []string{"x", "y", "z", "nx", "ny", "nz", "s", "t"} {
		_, _ = fmt.Fprintf(writer, "property float %s\n", p)
	}
	_, _ = fmt.Fprintln(writer, "property uchar red")
	_, _ = fmt.Fprintln(writer, "property uchar green")
	_, _ = fmt.Fprintln(writer, "property uchar blue")
	_, _ = fmt.Fprintf(writer, "element face %d\n", numFaces)
	_, _ = fmt.Fprintln(writer, "property list uchar int vertex_indices")
	_, _ = fmt.Fprintln(writer, "end_header")

	for i := 0; i < numVertices; i++ {
		v := src.Vertex(i)
		c := v.Colors[0]
		_, _ = fmt.Fprintf(writer, "%g %g %g %g %g %g %g %g %d %d %d\n",
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UVs[0][0], v.UVs[0][1],
			c.R, c.G, c.B)
	}
	for i := 0; i < numFaces; i++ {
		_, _ = fmt.Fprintf(writer, "3 %d %d %d\n", src.Index(3*i), src.Index(3*i+1), src.Index(3*i+2))
	}
	return writer.Flush()
}
