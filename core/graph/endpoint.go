package graph

import "strings"

// defaultPort is the implicit port name used by an endpoint written without
// "node.port" notation.
const defaultPort = "main"

// endpoint is a parsed "node" or "node.port" reference.
type endpoint struct {
	nodeID string
	port   string
}

// parseEndpoint splits a wire-format endpoint string into its node id and
// port name, defaulting the port to defaultPort when omitted.
func parseEndpoint(s string) endpoint {
	nodeID, port, found := strings.Cut(s, ".")
	if !found {
		return endpoint{nodeID: nodeID, port: defaultPort}
	}
	return endpoint{nodeID: nodeID, port: port}
}
