// Package library works with the music directory on disk.
//
//   - [DirScanner] : walks a root and lists audio files in a stable order
//   - [TagReader] : extracts artist, title, album and duration from embedded tags
//   - [SidecarWriter] : places .lrc files beside audio without ever overwriting one
package library
