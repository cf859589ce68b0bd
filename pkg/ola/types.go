package ola

// Port describes a device port as reported by /json/get_ports.
type Port struct {
	Description string        `json:"description"`
	Device      string        `json:"device"`
	ID          string        `json:"id"`
	IsOutput    bool          `json:"is_output"`
	Priority    *PortPriority `json:"priority,omitempty"` // empty object when the port has no priority support
}

// PortPriority is the priority block of a port.
type PortPriority struct {
	CurrentMode        string `json:"current_mode,omitempty"`
	PriorityCapability string `json:"priority_capability,omitempty"`
	Value              int    `json:"value"`
}

// ServerStats is the response of /json/server_stats.
type ServerStats struct {
	Broadcast    string `json:"broadcast"`
	ConfigDir    string `json:"config_dir"`
	Hostname     string `json:"hostname"`
	HWAddress    string `json:"hw_address"`
	InstanceName string `json:"instance_name"`
	IP           string `json:"ip"`
	QuitEnabled  bool   `json:"quit_enabled"`
	Subnet       string `json:"subnet"`
	UpSince      string `json:"up_since"`
	Version      string `json:"version"`
}

// Plugin is a plugin entry of /json/universes_plugin_list.
type Plugin struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Active  bool   `json:"active"`
	Enabled bool   `json:"enabled"`
}

// Universe is a universe entry of /json/universes_plugin_list.
type Universe struct {
	ID          int    `json:"id"`
	InputPorts  int    `json:"input_ports"`
	OutputPorts int    `json:"output_ports"`
	Name        string `json:"name"`
	RDMDevices  int    `json:"rdm_devices"`
}

// UniversesPluginList is the response of /json/universes_plugin_list.
type UniversesPluginList struct {
	Plugins   []Plugin   `json:"plugins"`
	Universes []Universe `json:"universes"`
}

// DMXResponse is the response of /get_dmx.
type DMXResponse struct {
	DMX   []int  `json:"dmx"`
	Error string `json:"error,omitempty"`
}
