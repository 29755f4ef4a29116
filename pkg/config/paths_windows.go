package config

import "golang.org/x/sys/windows"

const defaultSystemModulePath = `C:\Program Files\numbox\modules`

func configHome() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_RoamingAppData, windows.KF_FLAG_CREATE)
}
