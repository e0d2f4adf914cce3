package shader

import (
	"github.com/gogpu/gpulayout"
)

var (
	vec3 = gpulayout.Vec(gpulayout.KindFloat, 3)
	mat4 = gpulayout.Mat(gpulayout.KindFloat, 4, 4)
)

func field(name string, t gpulayout.Type) gpulayout.StructField {
	return gpulayout.StructField{Name: name, Type: t}
}

func lightStruct() *gpulayout.Struct {
	return gpulayout.NewStruct("Light",
		field("position", vec3),
		field("intensity", gpulayout.TypeFloat),
	)
}

func sceneStruct() *gpulayout.Struct {
	return gpulayout.NewStruct("Scene",
		field("lights", gpulayout.ArrayOf(lightStruct(), 2)),
		field("count", gpulayout.TypeUint),
	)
}

func cameraStruct() *gpulayout.Struct {
	return gpulayout.NewStruct("Camera",
		field("view_proj", mat4),
		field("eye", vec3),
	)
}

func weightsStruct() *gpulayout.Struct {
	return gpulayout.NewStruct("Blur",
		field("weights", gpulayout.ArrayOf(gpulayout.TypeFloat, 3)),
		field("eye", vec3),
		field("exposure", gpulayout.TypeFloat),
	)
}
