//go:build windows

package privilege

import "golang.org/x/sys/windows"

func isElevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}
