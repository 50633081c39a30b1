package fsutil

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// ParamFile is a flat yaml map of named parameters read with typed accessors.
// Verbosity controls what gets announced on the logger:
//   0 = quiet
//   1 = defaults used for missing parameters
//   2 = every parameter read
type ParamFile struct {
	Filename  string
	Verbosity int
	Logger    zerolog.Logger

	params map[string]rawParam
	keys   []string

	mutex     sync.Mutex
	requested map[string]struct{}

	//the yaml decoder behind rawParam is not safe for concurrent use
	decodeMutex sync.Mutex
}

// rawParam keeps a value undecoded so each read resolves the yaml text
// straight into the requested type.
type rawParam struct {
	unmarshal func(interface{}) error
}

func (r *rawParam) UnmarshalYAML(unmarshal func(interface{}) error) error {
	r.unmarshal = unmarshal
	return nil
}

// Param is the set of types a parameter can be read as.
type Param interface {
	~int | ~int64 | ~bool | ~float32 | ~float64 | ~string
}

// LoadParamFile parses filename, which must hold a yaml map with string keys.
// verbosity must be 0, 1 or 2, see ParamFile.
func LoadParamFile(filename string, verbosity int) (*ParamFile, error) {
	if verbosity < 0 || verbosity > 2 {
		return nil, errors.Wrapf(ErrInvalidParamFile,
			"%s: verbosity (=%d) must be 0, 1, or 2", filename, verbosity)
	}
	bytes, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrInvalidParamFile, "%s: file not found", filename)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidParamFile, "%s: error while reading file: %v", filename, err)
	}

	var root interface{}
	if err = yaml.Unmarshal(bytes, &root); err != nil {
		return nil, errors.Wrapf(ErrInvalidParamFile, "%s: couldn't parse yaml file (%v)", filename, err)
	}
	if _, ok := root.(map[interface{}]interface{}); !ok {
		return nil, errors.Wrapf(ErrInvalidParamFile,
			"%s: file parsed successfully, but toplevel yaml node is not a map", filename)
	}
	var rootMap map[interface{}]rawParam
	if err = yaml.Unmarshal(bytes, &rootMap); err != nil {
		return nil, errors.Wrapf(ErrInvalidParamFile, "%s: couldn't parse yaml file (%v)", filename, err)
	}

	p := &ParamFile{
		Filename:  filename,
		Verbosity: verbosity,
		Logger:    defaultLogger,
		params:    make(map[string]rawParam, len(rootMap)),
		requested: make(map[string]struct{}),
	}
	for k, v := range rootMap {
		key, ok := k.(string)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidParamFile,
				"%s: toplevel yaml node is a map, but key %v is not a string", filename, k)
		}
		p.params[key] = v
		p.keys = append(p.keys, key)
	}
	sort.Strings(p.keys)
	return p, nil
}

func (p *ParamFile) HasParam(key string) bool {
	_, ok := p.params[key]
	return ok
}

// Keys returns all parameter names, sorted.
func (p *ParamFile) Keys() []string {
	return append([]string(nil), p.keys...)
}

// CheckUnusedParams returns the parameters that were never read. With fatal
// set, any unused parameter is an error; otherwise they are logged.
func (p *ParamFile) CheckUnusedParams(fatal bool) ([]string, error) {
	p.mutex.Lock()
	unused := make([]string, 0)
	for _, key := range p.keys {
		if _, ok := p.requested[key]; !ok {
			unused = append(unused, key)
		}
	}
	p.mutex.Unlock()

	if len(unused) == 0 {
		return unused, nil
	}
	if fatal {
		return unused, errors.Wrapf(ErrUnusedParams, "%s: %s", p.Filename, strings.Join(unused, ", "))
	}
	p.Logger.Warn().Str("file", p.Filename).Msgf("unrecognized params %s", strings.Join(unused, ", "))
	return unused, nil
}

// ReadScalar reads key as a T. A missing key fails with ErrParamNotFound and a
// value that does not convert exactly fails with ErrParamType.
func ReadScalar[T Param](p *ParamFile, key string) (T, error) {
	var value T
	if !p.HasParam(key) {
		return value, errors.Wrapf(ErrParamNotFound, "%s: parameter '%s'", p.Filename, key)
	}
	if err := p.decodeScalar(p.params[key], &value); err != nil {
		return value, errors.Wrapf(ErrParamType, "%s: expected '%s' to have type %s", p.Filename, key, typeName(value))
	}
	p.markRequested(key, fmt.Sprint(value))
	return value, nil
}

// ReadScalarOr is ReadScalar returning def when the parameter is missing.
func ReadScalarOr[T Param](p *ParamFile, key string, def T) (T, error) {
	if !p.HasParam(key) {
		p.announceDefault(key, fmt.Sprint(def))
		return def, nil
	}
	return ReadScalar[T](p, key)
}

// ReadVector reads a list parameter. A single value is read as a list of
// length one.
func ReadVector[T Param](p *ParamFile, key string) ([]T, error) {
	if !p.HasParam(key) {
		return nil, errors.Wrapf(ErrParamNotFound, "%s: parameter '%s'", p.Filename, key)
	}
	raw := p.params[key]
	var values []T
	if err := p.decodeVector(raw, &values); err != nil {
		var value T
		if err = p.decodeScalar(raw, &value); err != nil {
			return nil, errors.Wrapf(ErrParamType, "%s: expected '%s' to have type %s, or be a list of %ss",
				p.Filename, key, typeName(value), typeName(value))
		}
		values = []T{value}
	}
	p.markRequested(key, stringifyVector(values))
	return values, nil
}

// ReadVectorOr is ReadVector returning def when the parameter is missing.
func ReadVectorOr[T Param](p *ParamFile, key string, def []T) ([]T, error) {
	if !p.HasParam(key) {
		p.announceDefault(key, stringifyVector(def))
		return def, nil
	}
	return ReadVector[T](p, key)
}

func (p *ParamFile) markRequested(key string, value string) {
	p.mutex.Lock()
	p.requested[key] = struct{}{}
	p.mutex.Unlock()

	if p.Verbosity >= 2 {
		p.Logger.Info().Str("file", p.Filename).Msgf("%s = %s", key, value)
	}
}

func (p *ParamFile) announceDefault(key string, value string) {
	if p.Verbosity >= 1 {
		p.Logger.Info().Str("file", p.Filename).
			Msgf("parameter '%s' not found, using default value %s", key, value)
	}
}

// decodeScalar resolves raw straight into out, then checks the generic yaml
// value so numbers are not truncated or overflowed on the way.
func (p *ParamFile) decodeScalar(raw rawParam, out interface{}) error {
	var generic interface{}
	if err := p.decode(raw, out, &generic); err != nil {
		return err
	}
	return checkNumber(generic, reflect.TypeOf(out).Elem().Kind())
}

func (p *ParamFile) decodeVector(raw rawParam, out interface{}) error {
	var generic []interface{}
	if err := p.decode(raw, out, &generic); err != nil {
		return err
	}
	kind := reflect.TypeOf(out).Elem().Elem().Kind()
	for _, item := range generic {
		if err := checkNumber(item, kind); err != nil {
			return err
		}
	}
	return nil
}

func (p *ParamFile) decode(raw rawParam, outs ...interface{}) error {
	if raw.unmarshal == nil {
		return errors.New("null value")
	}
	p.decodeMutex.Lock()
	defer p.decodeMutex.Unlock()
	for _, out := range outs {
		if err := raw.unmarshal(out); err != nil {
			return err
		}
	}
	return nil
}

func checkNumber(generic interface{}, kind reflect.Kind) error {
	f, isFloat := generic.(float64)
	switch kind {
	case reflect.Int, reflect.Int64:
		if isFloat {
			return errors.Errorf("%v is not an integer", f)
		}
	case reflect.Float32:
		if isFloat && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return errors.Errorf("%v overflows float32", f)
		}
	}
	return nil
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}

func stringifyVector[T Param](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}
