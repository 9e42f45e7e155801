// Package model wraps a loaded articulated-body model as a signal-producing
// entity.
//
// [Description] is the parsed, passive form of a model: joints, masses, frame
// offsets and named reference points. [Dynamics] is the live handle built from
// a Description: it owns the position/velocity/acceleration input signals, the
// derived com/Jcom/zmp/momentum signals, and one position + Jacobian signal
// pair per operational point created with [Dynamics.CreateOpPoint].
//
// Computation flags follow the loaded-model contract: derived quantities whose
// flag is off fail to recompute instead of silently producing stale values.
//
// The configuration layout is a floating base (3 translation + 3 rpy
// orientation entries) followed by one angle per revolute joint.
package model
