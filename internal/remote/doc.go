// Package remote implements the interactive terminal remote.
//
// Keyboard keys are mapped onto ECP keys and sent as they are pressed:
//
//	esc/backspace  Back        h  Home       i  Info
//	arrows         Up/Down/Left/Right
//	enter/space/o/s  Select
//	r  Rev   p  Play   f  Fwd
//	m  VolumeMute   [  VolumeDown   ]  VolumeUp
//	P  toggle power   t  type text   q  quit
//
// In typing mode every printable key is sent as a literal key, so the
// device's on-screen keyboard receives the text as typed.
package remote
