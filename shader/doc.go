// Package shader emits shader-side declarations that match gpulayout
// layouts, and checks them against a real shader compiler.
//
// GLSL and GLSLBlock print struct and interface block definitions whose
// std140 or std430 layout is the one gpulayout computes. WGSL has no layout
// qualifiers, so WGSL reproduces a layout with @align and @size member
// attributes and wrapper structs for array strides WGSL would not choose.
// Verify compiles the WGSL with gogpu/naga and compares every member
// offset.
package shader
