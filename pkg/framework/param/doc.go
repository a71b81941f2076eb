// Package param provides lock-free plugin parameters.
//
// Each Parameter keeps its value in one atomic 64-bit cell, so the audio
// thread, the host's automation thread and the editor's UI loop can read and
// write it concurrently without locks and without ever seeing a torn value.
//
// Only per-cell atomicity is guaranteed. A write on one thread becomes visible
// to the others eventually; the audio processor samples the value once per
// block, so a change may take effect one block late.
package param
