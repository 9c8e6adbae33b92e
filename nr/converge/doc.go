// Package converge compares waveforms computed at different numerical
// resolutions.
//
// [Compare] takes two series, restricts them to their common time window,
// resamples both onto a shared grid no coarser than the sparser input, and
// derives per mode the difference-amplitude curve |h_a - h_b|, the
// unwrapped phase difference, and scalar summaries (maximum, L2 and
// relative L2 norms). The result is an immutable [Report].
//
// With three or more levels, [EstimateOrder] regresses the pairwise
// summaries against a resolution proxy in log-log space to obtain an
// empirical order of convergence. With two levels the order is undefined and
// the report says so explicitly.
//
// Optionally ([WithTimeAlignment]) the second series is first shifted in
// time by the lag that maximizes the FFT cross-correlation of the dominant
// mode's amplitude.
package converge
