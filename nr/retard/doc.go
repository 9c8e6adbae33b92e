// Package retard maps coordinate time at a finite extraction radius onto an
// estimate of retarded time, the time a distant observer would assign to the
// same wavefront.
//
// For areal radius r and total mass M the tortoise coordinate is
//
//	r* = r + 2M ln(r/(2M) - 1)
//
// and retarded time is t_ret = t - r*. The mapping is only defined outside
// the horizon, r > 2M; [Align] fails with [ErrInvalidRadius] otherwise.
//
// When the extraction sphere carries a lapse history, coordinate time is
// first replaced by the observer's proper time (the running integral of the
// lapse), see [ProperTime].
package retard
