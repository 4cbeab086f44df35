// Package capture runs the load, normalize, render and read-back sequence
// for a single model and delivers the resulting PNG exactly once.
//
// Every invocation owns its Session (scene, camera, renderer and orbit
// controls), so concurrent invocations never share rendering state.
package capture
