package ndarray

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device represents the compute device arrays are processed on.
//
// Array data always lives in host memory; the device records which backend
// produced the array and where its compute runs.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// arrayBuffer is a reference-counted shared buffer for copy-on-write
// semantics. Cloning an array only bumps the count; the data is copied
// lazily when a unique owner mutates it.
type arrayBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

func newArrayBuffer(size int) *arrayBuffer {
	buf := &arrayBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

func (ab *arrayBuffer) addRef() {
	ab.refCount.Add(1)
}

func (ab *arrayBuffer) release() {
	if ab.refCount.Add(-1) == 0 {
		ab.mu.Lock()
		defer ab.mu.Unlock()
		ab.data = nil
	}
}

func (ab *arrayBuffer) isUnique() bool {
	return ab.refCount.Load() == 1
}

// Array is the dense n-dimensional array type used throughout the engine.
// It is the canonical "native array" all call-surface inputs are coerced to.
type Array struct {
	buffer *arrayBuffer // Shared reference-counted buffer
	shape  Shape        // Array dimensions
	stride []int        // Memory strides (row-major)
	dtype  DataType     // Runtime type information
	device Device       // Compute device
	offset int          // Offset for slicing/views
}

// New creates a new Array with the given shape and type.
// Memory is allocated zero-filled.
func New(shape Shape, dtype DataType, device Device) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	numElements := shape.NumElements()
	byteSize := numElements * dtype.Size()

	return &Array{
		buffer: newArrayBuffer(byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
		offset: 0,
	}, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// Strides returns the array's memory strides.
func (a *Array) Strides() []int {
	return a.stride
}

// DType returns the array's data type.
func (a *Array) DType() DataType {
	return a.dtype
}

// Device returns the array's compute device.
func (a *Array) Device() Device {
	return a.device
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (a *Array) ByteSize() int {
	return a.NumElements() * a.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (a *Array) Data() []byte {
	return a.buffer.data[a.offset:]
}

// AsFloat32 interprets the data as []float32.
// Panics if the array's dtype is not Float32.
func (a *Array) AsFloat32() []float32 {
	if a.dtype != Float32 {
		panic(fmt.Sprintf("array dtype is %s, not float32", a.dtype))
	}
	data := a.buffer.data[a.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the array's dtype is not Float64.
func (a *Array) AsFloat64() []float64 {
	if a.dtype != Float64 {
		panic(fmt.Sprintf("array dtype is %s, not float64", a.dtype))
	}
	data := a.buffer.data[a.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsInt32 interprets the data as []int32.
// Panics if the array's dtype is not Int32.
func (a *Array) AsInt32() []int32 {
	if a.dtype != Int32 {
		panic(fmt.Sprintf("array dtype is %s, not int32", a.dtype))
	}
	data := a.buffer.data[a.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), a.NumElements())
}

// At32 returns the float32 element at the given indices.
// Panics if indices are out of bounds or the dtype is not Float32.
func (a *Array) At32(indices ...int) float32 {
	return a.AsFloat32()[a.flatIndex(indices)]
}

// Set32 sets the float32 element at the given indices.
// Panics if indices are out of bounds or the dtype is not Float32.
func (a *Array) Set32(value float32, indices ...int) {
	a.AsFloat32()[a.flatIndex(indices)] = value
}

func (a *Array) flatIndex(indices []int) int {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(a.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		offset += idx * a.stride[i]
	}
	return offset
}

// Clone creates a shallow copy of the Array (shares the buffer with
// reference counting). The buffer is copied only when modified.
func (a *Array) Clone() *Array {
	a.buffer.addRef()
	return &Array{
		buffer: a.buffer,
		shape:  a.shape.Clone(),
		stride: append([]int(nil), a.stride...),
		dtype:  a.dtype,
		device: a.device,
		offset: a.offset,
	}
}

// Release decrements the reference count and deallocates if it reaches 0.
func (a *Array) Release() {
	a.buffer.release()
}

// IsUnique returns true if this array is the only reference to the buffer.
// When true, backends can perform inplace operations.
func (a *Array) IsUnique() bool {
	return a.buffer.isUnique()
}

// String returns a human-readable representation of the array.
func (a *Array) String() string {
	return fmt.Sprintf("Array[%s]%v on %s", a.dtype, a.shape, a.device)
}
