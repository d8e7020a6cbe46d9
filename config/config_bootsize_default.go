//go:build !appstart2000

package config

// BootSize is the bootloader's reserved region, from flash offset 0 up to
// AppStart. Two values appear across the reference sources (0x2000 and
// 0x4000); the linked loader image and its build scripts imply 0x4000, so
// that is the default. Targets whose linker script reserves only 0x2000
// build with the appstart2000 tag instead (config_bootsize_2000.go).
const BootSize = 0x4000
