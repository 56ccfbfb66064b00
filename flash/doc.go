// Package flash defines the contract a NOR-flash-like storage device must
// satisfy to back the kflash allocator, plus a couple of concrete
// implementations.
//
// # Overview
//
// The device exposes a fixed geometry (page size, subsector size, and the
// bounds of the region reserved for feature storage) and two families of
// operations:
//
//   - Mutators (Startup, EraseSubsector, ProgramPage,
//     EnableMemoryMappedMode, DisableMemoryMappedMode) that always return
//     an error and never partially apply: a failed EraseSubsector or
//     ProgramPage must leave the flash contents from before the call
//     untouched at every other address.
//   - Geometry accessors (PageSize, SubsectorSize, PageBase, SubsectorBase,
//     KFStart, KFEnd) that are pure functions of the device's
//     configuration.
//
// # Mode discipline
//
// A Device is in one of two modes: memory-mapped, in which Read behaves
// like a plain load from the reserved region, or programming, required for
// EraseSubsector and ProgramPage. Callers are responsible for toggling
// modes around mutating calls and returning to memory-mapped mode
// afterwards; see kflash.Kernel for the toggling discipline this package
// expects.
//
// # Implementations
//
//   - MemDevice is a pure in-process implementation backed by a []byte,
//     suitable for unit tests and short-lived processes.
//   - flash/mmapdev provides a file-backed implementation so that a flash
//     image can persist across process restarts.
package flash
