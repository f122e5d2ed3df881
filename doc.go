// Package miromcp documents the go-miro-mcp module, an adapter that exposes a
// Miro whiteboard to agents as MCP tools and a board resource.
//
// Importers typically depend on the subpackages directly:
//
//	import (
//	  "github.com/KamdynS/go-miro-mcp/miro"
//	  "github.com/KamdynS/go-miro-mcp/tools/board"
//	  "github.com/KamdynS/go-miro-mcp/mcp"
//	)
//
// The binaries live under cmd: miro-mcp serves the tools over stdio or HTTP
// and miroctl calls them from a shell.
package miromcp
