package graph

// Document is the on-wire JSON shape of a graph, as described in §6.
type Document struct {
	Nodes          []NodeDecl      `json:"nodes"`
	Connections    []ConnectionDecl `json:"connections"`
	PipelineConfig *PipelineConfig  `json:"pipeline_config,omitempty"`
}

// NodeDecl declares one node instance: a unique id within the graph, the
// registered node-type id, and the parameter map consumed by Configure.
type NodeDecl struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`

	// DeviceProfileID, if non-empty, names a device profile (§3, §4.5a) the
	// executor must resolve via the HAL before spawning this node.
	DeviceProfileID string `json:"device_profile_id,omitempty"`
}

// ConnectionDecl is a directed edge between two node endpoints. Endpoints
// use "node" or "node.port" notation; an endpoint without a port suffix
// refers to that node's default main input/output port.
type ConnectionDecl struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BackpressurePolicy names a per-edge backpressure behavior.
type BackpressurePolicy string

const (
	BackpressureBlock       BackpressurePolicy = "Block"
	BackpressureDropOldest  BackpressurePolicy = "DropOldest"
	BackpressureDropNewest  BackpressurePolicy = "DropNewest"
)

// Priority names a pipeline's scheduling priority level (§4.9).
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityNormal   Priority = "Normal"
	PriorityLow      Priority = "Low"
)

// PipelineConfig holds the optional pipeline-wide settings.
type PipelineConfig struct {
	ChannelCapacity int                `json:"channel_capacity,omitempty"`
	Priority        Priority           `json:"priority,omitempty"`
	Backpressure    BackpressurePolicy `json:"backpressure,omitempty"`
}

// defaultChannelCapacity is used when PipelineConfig is absent or its
// ChannelCapacity field is zero, per §4.5.
const defaultChannelCapacity = 16

// Resolved returns a copy of config with defaults applied.
func (c *PipelineConfig) Resolved() PipelineConfig {
	resolved := PipelineConfig{
		ChannelCapacity: defaultChannelCapacity,
		Priority:        PriorityNormal,
		Backpressure:    BackpressureBlock,
	}
	if c == nil {
		return resolved
	}
	if c.ChannelCapacity > 0 {
		resolved.ChannelCapacity = c.ChannelCapacity
	}
	if c.Priority != "" {
		resolved.Priority = c.Priority
	}
	if c.Backpressure != "" {
		resolved.Backpressure = c.Backpressure
	}
	return resolved
}
