// Package quarkgl provides a minimal, predictable software 3D engine.
//
// QuarkGL is intended for visualization: meshes, simple scenes, and interactive views
// (orbit/zoom). It does not provide a GPU abstraction; "shaders" are Go values that
// run on the CPU once per vertex and once per triangle.
//
// Pipeline (fixed):
//
//	Scene → Vertex shader → Transform → Projection → Clipping → Rasterization
//	      → Fragment shader → Blending → Frame output.
//
// The renderer draws into a caller-provided Target and reuses its scratch buffers
// between frames, so the render hot path does not allocate once warmed up.
package quarkgl
