package utils

const (
	// RELTOL scales the measure-based singularity checks, e.g. a 2x2 system is
	// treated as singular when det < RELTOL * product of the squared row lengths.
	RELTOL = 1.e-6
	// DETTOL is the relative determinant threshold for 3x3 systems.
	DETTOL = 1.e-10
)
