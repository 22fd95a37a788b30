// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package inv

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// Built-in kernel-shape names for the inv_kde_func selector. Only a
// Gaussian kernel is implemented; "auto" resolves to it. Additional shapes
// (e.g. Epanechnikov) would register here the way align.GetScoreModel
// registers additional score models.
const (
	KDEFuncAuto     = "auto"
	KDEFuncGaussian = "gaussian"
)

// Kernel is a truncated-normal smoothing kernel: a Gaussian weight function
// that is clamped to zero beyond truncZ standard deviations, used to turn a
// sparse set of "this k-mer looks reverse-complemented" sample positions
// into a smooth density curve over the candidate region.
type Kernel struct {
	bandwidth float64
	truncZ    float64
	normal    distuv.Normal
}

// ValidateKDEFunc reports whether name is a known inv_kde_func selector
// value. Confirm calls this once up front so an unrecognized selector is a
// fatal configuration error, not something that gets swallowed candidate by
// candidate as a degenerate-input drop.
func ValidateKDEFunc(name string) error {
	switch name {
	case "", KDEFuncAuto, KDEFuncGaussian:
		return nil
	default:
		return errors.Errorf("inv: unknown inv_kde_func %q", name)
	}
}

// NewKernel builds a Kernel with the given bandwidth (in bases) and
// truncation threshold (in standard deviations), using the kernel shape
// named by kdeFunc (the inv_kde_func selector). Callers are expected to
// have already validated kdeFunc with ValidateKDEFunc; an unrecognized name
// here falls back to the default Gaussian kernel rather than failing deep
// inside a per-candidate scan.
func NewKernel(bandwidth, truncZ float64, kdeFunc string) *Kernel {
	if bandwidth <= 0 {
		bandwidth = 1
	}
	return &Kernel{
		bandwidth: bandwidth,
		truncZ:    truncZ,
		normal:    distuv.Normal{Mu: 0, Sigma: bandwidth},
	}
}

func (k *Kernel) weight(dx float64) float64 {
	z := dx / k.bandwidth
	if z < -k.truncZ || z > k.truncZ {
		return 0
	}
	return k.normal.Prob(dx)
}

// Density evaluates the kernel density estimate built from samples
// (unweighted point masses) at x.
func (k *Kernel) Density(samples []float64, x float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += k.weight(x - s)
	}
	return sum / float64(len(samples))
}
