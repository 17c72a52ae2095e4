// Package privilege reports whether the process runs with administrator rights.
package privilege

// IsElevated reports whether the current process is privileged: effective
// uid 0 on unix, an elevated token on windows.
func IsElevated() (bool, error) {
	return isElevated()
}
