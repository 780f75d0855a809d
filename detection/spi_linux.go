//go:build linux

package detection

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"
)

// spiGlob is replaced in tests
var spiGlob = "/dev/spidev*"

// SPIDevices lists spidev nodes the process can open for reading and
// writing. The periph.io port name is the node name without the spidev
// prefix, e.g. "0.0".
func SPIDevices() ([]DeviceInfo, error) {
	paths, err := filepath.Glob(spiGlob)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	devices := make([]DeviceInfo, 0, len(paths))
	for _, path := range paths {
		if unix.Access(path, unix.R_OK|unix.W_OK) != nil {
			continue
		}
		port := strings.TrimPrefix(filepath.Base(path), "spidev")
		devices = append(devices, DeviceInfo{
			Transport: "spi",
			Path:      path,
			Name:      "SPI" + port,
			Metadata:  map[string]string{"port": port},
		})
	}
	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, nil
}
