package config

import "strings"

// AppVersion is the version of the application, stamped at build time.
var AppVersion string

// AppName is the name of the application.
const AppName = "Fences"

// AppID is the fyne application ID, also used as the preferences namespace.
const AppID = "com.dixieflatline76.fences"

// FencesSubDir is the folder under the user's Desktop that holds one sub folder per fence.
const FencesSubDir = "Fences"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"
