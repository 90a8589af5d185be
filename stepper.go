package hyperspec

// stepSizes computes the repeated-halving sequence n_0=n, n_i=ceil(n_{i-1}/2)
// for i in [0, levels], used to locate subband boundaries across wavelet
// decomposition levels. stepSizes(n, levels)[i] is the size of the LL
// region's edge after i levels of decomposition.
func stepSizes(n, levels int) []int {
	sizes := make([]int, levels+1)
	sizes[0] = n
	for i := 1; i <= levels; i++ {
		sizes[i] = (sizes[i-1] + 1) / 2
	}
	return sizes
}
