// Package api exposes the exercise catalog and the grader over HTTP. It is
// built on gin: a Router owns the engine and mounts Controllers under a
// versioned base path.
package api
