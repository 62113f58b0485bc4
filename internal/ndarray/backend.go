package ndarray

// Backend defines the interface all compute backends must implement.
// Backends handle the actual computation for array operations.
//
// Implementations:
//   - CPU: pure Go with a blocked, parallel matmul path
//   - WebGPU: GPU compute via WGSL shaders (windows builds)
type Backend interface {
	// Element-wise binary operations (with broadcasting)
	Add(a, b *Array) *Array
	Sub(a, b *Array) *Array
	Mul(a, b *Array) *Array
	Div(a, b *Array) *Array

	// Matrix operations. 2D only: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *Array) *Array

	// Shape operations
	Reshape(x *Array, newShape Shape) *Array
	Transpose(x *Array, axes ...int) *Array

	// Scalar operations. Subtraction and division reduce to these.
	AddScalar(x *Array, scalar float64) *Array
	MulScalar(x *Array, scalar float64) *Array

	// Math operations (element-wise)
	Exp(x *Array) *Array
	Tanh(x *Array) *Array
	Sigmoid(x *Array) *Array

	// Softmax along a dimension. Only the last dimension is supported.
	Softmax(x *Array, dim int) *Array

	// Reduction operations
	Sum(x *Array) *Array                            // total sum, shape {1}
	SumDim(x *Array, dim int, keepDim bool) *Array  // sum along dimension
	MeanDim(x *Array, dim int, keepDim bool) *Array // mean along dimension
	Argmax(x *Array, dim int) *Array                // index of maximum along dimension (Int32)

	// Metadata
	Name() string
	Device() Device
}
