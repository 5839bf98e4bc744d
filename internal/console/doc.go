// Package console runs the interactive scan loop.
//
// Each input line is either a console command (exit, reset, reset-scan,
// status, beep, help) or a scanned code submitted to the verification engine.
// In sequence mode a rejected duplicate or out-of-batch scan is followed by a
// classification prompt; verification mode only reports outcomes.
package console
