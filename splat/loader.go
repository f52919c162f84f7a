package splat

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/arrowforge/gsplat/common"
)

// plyProperty describes one recognized or skipped per-vertex property parsed
// from a PLY header.
type plyProperty struct {
	name     string
	scalar   string
	isList   bool
	countT   string
	elemT    string
}

var plyScalarSize = map[string]int{
	"char": 1, "int8": 1,
	"uchar": 1, "uint8": 1,
	"short": 2, "int16": 2,
	"ushort": 2, "uint16": 2,
	"int": 4, "int32": 4,
	"uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

// LoadPLY parses a binary little- or big-endian PLY point cloud into a
// slice of GPURecord. The header must be ASCII and terminated by
// "end_header\n" or "end_header\r\n"; ASCII-format vertex data is not
// supported and is reported via common.ErrUnsupportedInput.
//
// f_rest_* properties are expected in channel-first order (all R, then all
// G, then all B) and are re-interleaved to [R0,G0,B0,R1,G1,B1,...] to match
// the layout GPURecord.SH1/SH2/SH3 and the rasterizer's SH evaluation
// expect.
func LoadPLY(r io.Reader) ([]GPURecord, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("splat: reading ply magic: %w", common.ErrUnsupportedInput)
	}
	if strings.TrimSpace(line) != "ply" {
		return nil, fmt.Errorf("splat: missing ply magic: %w", common.ErrUnsupportedInput)
	}

	var bigEndian bool
	var formatSeen bool
	var vertexCount int
	var properties []plyProperty
	var inVertexElement bool

	for {
		line, err = br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("splat: missing end_header: %w", common.ErrUnsupportedInput)
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "end_header" {
			break
		}
		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				continue
			}
			switch fields[1] {
			case "binary_little_endian":
				bigEndian = false
			case "binary_big_endian":
				bigEndian = true
			case "ascii":
				return nil, fmt.Errorf("splat: ascii ply not supported: %w", common.ErrUnsupportedInput)
			default:
				return nil, fmt.Errorf("splat: unknown ply format %q: %w", fields[1], common.ErrUnsupportedInput)
			}
			formatSeen = true
		case "comment":
			// ignored
		case "element":
			if len(fields) < 3 {
				continue
			}
			inVertexElement = fields[1] == "vertex"
			if inVertexElement {
				n, err := strconv.Atoi(fields[2])
				if err != nil {
					return nil, fmt.Errorf("splat: bad vertex count %q: %w", fields[2], common.ErrUnsupportedInput)
				}
				vertexCount = n
			}
		case "property":
			if !inVertexElement {
				continue
			}
			if fields[1] == "list" {
				if len(fields) < 5 {
					continue
				}
				properties = append(properties, plyProperty{
					name: fields[4], isList: true,
					countT: normalizeScalar(fields[2]), elemT: normalizeScalar(fields[3]),
				})
				continue
			}
			if len(fields) < 3 {
				continue
			}
			scalar := normalizeScalar(fields[1])
			if _, ok := plyScalarSize[scalar]; !ok {
				return nil, fmt.Errorf("splat: unknown scalar type %q: %w", fields[1], common.ErrUnsupportedInput)
			}
			properties = append(properties, plyProperty{name: fields[2], scalar: scalar})
		}
	}
	if !formatSeen {
		return nil, fmt.Errorf("splat: missing format line: %w", common.ErrUnsupportedInput)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if bigEndian {
		order = binary.BigEndian
	}

	shIndex := map[string]int{}
	var shCount int
	for _, p := range properties {
		if strings.HasPrefix(p.name, "f_rest_") {
			shIndex[p.name] = shCount
			shCount++
		}
	}

	records := make([]GPURecord, vertexCount)
	shRaw := make([][]float32, vertexCount)
	if shCount > 0 {
		for i := range shRaw {
			shRaw[i] = make([]float32, shCount)
		}
	}

	for v := 0; v < vertexCount; v++ {
		rec := GPURecord{}
		for _, p := range properties {
			if p.isList {
				if err := skipPLYList(br, order, p); err != nil {
					return nil, err
				}
				continue
			}
			val, err := readPLYScalar(br, order, p.scalar)
			if err != nil {
				return nil, fmt.Errorf("splat: reading ply vertex %d property %q: %w", v, p.name, err)
			}
			switch {
			case p.name == "x":
				rec.Mean[0] = val
			case p.name == "y":
				rec.Mean[1] = val
			case p.name == "z":
				rec.Mean[2] = val
			case p.name == "scale_0":
				rec.Scale[0] = float32(math.Exp(float64(val)))
			case p.name == "scale_1":
				rec.Scale[1] = float32(math.Exp(float64(val)))
			case p.name == "scale_2":
				rec.Scale[2] = float32(math.Exp(float64(val)))
			case p.name == "rot_0":
				rec.Rotation[0] = val
			case p.name == "rot_1":
				rec.Rotation[1] = val
			case p.name == "rot_2":
				rec.Rotation[2] = val
			case p.name == "rot_3":
				rec.Rotation[3] = val
			case p.name == "f_dc_0":
				rec.ColorDC[0] = 0.5 + shC0*val
			case p.name == "f_dc_1":
				rec.ColorDC[1] = 0.5 + shC0*val
			case p.name == "f_dc_2":
				rec.ColorDC[2] = 0.5 + shC0*val
			case p.name == "opacity":
				rec.Opacity = sigmoid(val)
			case strings.HasPrefix(p.name, "f_rest_"):
				shRaw[v][shIndex[p.name]] = val
			}
		}
		if norm := quatNorm(rec.Rotation); norm > 1e-12 {
			inv := float32(1 / math.Sqrt(float64(norm)))
			rec.Rotation[0] *= inv
			rec.Rotation[1] *= inv
			rec.Rotation[2] *= inv
			rec.Rotation[3] *= inv
		}
		records[v] = rec
	}

	if shCount > 0 {
		interleaveSH(records, shRaw, shCount)
	}

	return records, nil
}

const shC0 = 0.28209479177387814

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

func quatNorm(q [4]float32) float32 {
	return q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
}

// interleaveSH re-orders channel-first f_rest_* values (all R, then all G,
// then all B) into the [R0,G0,B0,R1,G1,B1,...] layout GPURecord.SH1/SH2/SH3
// expect, and distributes them across the three SH bands.
func interleaveSH(records []GPURecord, shRaw [][]float32, shCount int) {
	perChannel := shCount / 3
	if perChannel*3 != shCount {
		return
	}
	band1Count, band2Count, band3Count := 3, 5, 7
	if perChannel < band1Count+band2Count+band3Count {
		band1Count = min(perChannel, 3)
		band2Count = min(max(perChannel-3, 0), 5)
		band3Count = min(max(perChannel-8, 0), 7)
	}

	for i := range records {
		raw := shRaw[i]
		interleaved := make([]float32, shCount)
		for c := 0; c < 3; c++ {
			for k := 0; k < perChannel; k++ {
				interleaved[k*3+c] = raw[c*perChannel+k]
			}
		}
		off := 0
		for k := 0; k < band1Count*3 && off < len(interleaved) && k < len(records[i].SH1); k++ {
			records[i].SH1[k] = interleaved[off]
			off++
		}
		for k := 0; off < len(interleaved) && k < len(records[i].SH2); k++ {
			records[i].SH2[k] = interleaved[off]
			off++
		}
		for k := 0; off < len(interleaved) && k < len(records[i].SH3); k++ {
			records[i].SH3[k] = interleaved[off]
			off++
		}
	}
}

func normalizeScalar(s string) string {
	switch s {
	case "int8", "char":
		return "char"
	case "uint8", "uchar":
		return "uchar"
	case "int16", "short":
		return "short"
	case "uint16", "ushort":
		return "ushort"
	case "int32", "int":
		return "int"
	case "uint32", "uint":
		return "uint"
	case "float32", "float":
		return "float"
	case "float64", "double":
		return "double"
	default:
		return s
	}
}

func readPLYScalar(r io.Reader, order binary.ByteOrder, scalar string) (float32, error) {
	size := plyScalarSize[scalar]
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	switch scalar {
	case "char":
		return float32(int8(buf[0])), nil
	case "uchar":
		return float32(buf[0]), nil
	case "short":
		return float32(int16(order.Uint16(buf))), nil
	case "ushort":
		return float32(order.Uint16(buf)), nil
	case "int":
		return float32(int32(order.Uint32(buf))), nil
	case "uint":
		return float32(order.Uint32(buf)), nil
	case "float":
		return math.Float32frombits(order.Uint32(buf)), nil
	case "double":
		return float32(math.Float64frombits(order.Uint64(buf))), nil
	default:
		return 0, fmt.Errorf("splat: unsupported scalar type %q", scalar)
	}
}

func skipPLYList(r io.Reader, order binary.ByteOrder, p plyProperty) error {
	n, err := readPLYScalar(r, order, p.countT)
	if err != nil {
		return err
	}
	size := plyScalarSize[p.elemT]
	buf := make([]byte, size)
	for i := 0; i < int(n); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
	}
	return nil
}

// LoadSplat parses the headerless .splat format: 32 bytes per splat,
// position (f32x3), linear scale (f32x3), color+opacity (u8x4), and a
// byte-quantized quaternion (u8x4, mapped (x-128)/128 then normalized). No
// spherical harmonics are carried by this format.
func LoadSplat(r io.Reader) ([]GPURecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%32 != 0 {
		return nil, fmt.Errorf("splat: .splat data length %d not a multiple of 32: %w", len(data), common.ErrUnsupportedInput)
	}
	n := len(data) / 32
	records := make([]GPURecord, n)
	br := bytes.NewReader(data)
	for i := 0; i < n; i++ {
		var raw [32]byte
		if _, err := io.ReadFull(br, raw[:]); err != nil {
			return nil, err
		}
		rec := GPURecord{}
		for a := 0; a < 3; a++ {
			rec.Mean[a] = math.Float32frombits(binary.LittleEndian.Uint32(raw[a*4:]))
		}
		for a := 0; a < 3; a++ {
			rec.Scale[a] = math.Float32frombits(binary.LittleEndian.Uint32(raw[12+a*4:]))
		}
		for c := 0; c < 3; c++ {
			rec.ColorDC[c] = float32(raw[24+c]) / 255
		}
		rec.Opacity = float32(raw[27]) / 255
		for a := 0; a < 4; a++ {
			rec.Rotation[a] = (float32(raw[28+a]) - 128) / 128
		}
		if norm := quatNorm(rec.Rotation); norm > 1e-12 {
			inv := float32(1 / math.Sqrt(float64(norm)))
			for a := 0; a < 4; a++ {
				rec.Rotation[a] *= inv
			}
		}
		records[i] = rec
	}
	return records, nil
}
