//go:build appstart2000

package config

// BootSize is 0x2000 for targets whose linker script reserves only 8 KiB
// for the loader. See config_bootsize_default.go for the default.
const BootSize = 0x2000
