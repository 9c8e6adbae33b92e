// Package pipeline orchestrates extrapolation to infinite radius and
// convergence analysis across resolution levels.
//
// All settings live in an explicit [Config]; the drivers hold no global
// state. [ExtrapolationDriver] fails fast and tags the failing radius,
// mode, order or time in a [*RunError]. [ConvergenceDriver] compares level
// pairs independently and reports each outcome on its own.
package pipeline
