package shader

import (
	"testing"

	"github.com/gogpu/naga/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gpulayout"
)

type material struct {
	Albedo    gpulayout.Vec4
	Roughness float32
	Emissive  gpulayout.Vec3
	Layers    [2]uint32
	Lit       bool
	Normal    gpulayout.Mat3 `gpu:"normal_matrix"`
}

func TestVerify(t *testing.T) {
	structs := map[string]func() *gpulayout.Struct{
		"camera": cameraStruct,
		"blur":   weightsStruct,
		"scene":  sceneStruct,
		"frame": func() *gpulayout.Struct {
			return gpulayout.NewStruct("Frame",
				field("light", gpulayout.DynamicOffset{Inner: lightStruct()}),
				field("time", gpulayout.TypeFloat),
			)
		},
		"material": func() *gpulayout.Struct {
			return gpulayout.TypeOf(material{}).(*gpulayout.Struct)
		},
	}
	rules := []gpulayout.Rules{
		gpulayout.Std140,
		gpulayout.Std430,
		gpulayout.Std430.WithStructEndPadding(true),
	}

	for name, build := range structs {
		for _, r := range rules {
			t.Run(name+"/"+r.String(), func(t *testing.T) {
				assert.NoError(t, Verify(build(), r))
			})
		}
	}
}

func TestVerifyInexpressible(t *testing.T) {
	s := gpulayout.NewStruct("D", field("x", gpulayout.TypeDouble))
	assert.ErrorIs(t, Verify(s, gpulayout.Std430), ErrInexpressible)
}

func TestCompareStruct(t *testing.T) {
	layout := lightStruct().Layout(gpulayout.Std140)

	tests := []struct {
		name    string
		st      ir.StructType
		wantErr bool
	}{
		{
			name: "match",
			st: ir.StructType{
				Members: []ir.StructMember{{Name: "position", Offset: 0}, {Name: "intensity", Offset: 12}},
				Span:    16,
			},
		},
		{
			name: "offset",
			st: ir.StructType{
				Members: []ir.StructMember{{Name: "position", Offset: 0}, {Name: "intensity", Offset: 16}},
				Span:    32,
			},
			wantErr: true,
		},
		{
			name: "span",
			st: ir.StructType{
				Members: []ir.StructMember{{Name: "position", Offset: 0}, {Name: "intensity", Offset: 12}},
				Span:    32,
			},
			wantErr: true,
		},
		{
			name: "member count",
			st: ir.StructType{
				Members: []ir.StructMember{{Name: "position", Offset: 0}},
				Span:    16,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := compareStruct(layout, "Light", tt.st)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrMismatch)
		})
	}
}
