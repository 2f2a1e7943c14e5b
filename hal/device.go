package hal

// DeviceConfig names the hardware of the appliance.
type DeviceConfig struct {
	Geometry    Geometry
	Framebuffer string
	StatusBuses []string
	Pins        PinNames
}

// PinNames are GPIO names as understood by the board's pin registry.
type PinNames struct {
	Select string
	Escape string
	Up     string
	Down   string
}
