//go:build !linux

package detection

// SPIDevices is only implemented on Linux
func SPIDevices() ([]DeviceInfo, error) {
	return nil, ErrUnsupportedPlatform
}
