package xoui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/omeyang/xoui/pkg/util/xmac"
)

// GenerateOption 配置 [Registry.Generate]。
type GenerateOption func(*generateOptions)

type generateOptions struct {
	isoCode      string
	isoSet       bool
	vendor       string
	vendorSet    bool
	randomVendor bool
}

// WithISOCode 在指定国家的厂商前缀下生成地址（大小写不敏感）。
// 设置后忽略厂商选项。
func WithISOCode(code string) GenerateOption {
	return func(o *generateOptions) {
		o.isoCode = code
		o.isoSet = true
	}
}

// WithVendor 在指定厂商（名称需与注册表完全一致）的前缀下生成地址。
func WithVendor(name string) GenerateOption {
	return func(o *generateOptions) {
		o.vendor = name
		o.vendorSet = true
	}
}

// WithRandomVendor 随机选择一个厂商，在其前缀下生成地址。
func WithRandomVendor() GenerateOption {
	return func(o *generateOptions) { o.randomVendor = true }
}

func (o *generateOptions) validate() error {
	if o.isoSet {
		code := strings.TrimSpace(o.isoCode)
		if len(code) != 2 || !isASCIILetter(code[0]) || !isASCIILetter(code[1]) {
			return fmt.Errorf("%w: iso code must be two letters, got %q", ErrInvalidOptions, o.isoCode)
		}
		o.isoCode = strings.ToUpper(code)
		return nil
	}
	if o.vendorSet && o.randomVendor {
		return fmt.Errorf("%w: WithVendor and WithRandomVendor are mutually exclusive", ErrInvalidOptions)
	}
	if o.vendorSet && strings.TrimSpace(o.vendor) == "" {
		return fmt.Errorf("%w: empty vendor name", ErrInvalidOptions)
	}
	return nil
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Generate 生成 MAC 地址。
//
//   - 无选项：均匀随机的 48 位地址，不带厂商信息，不访问注册表
//   - [WithISOCode]：随机选取该国家的一条记录，地址带该记录的名称、地址与查询的国家代码
//   - [WithVendor]：随机选取该厂商的一条记录，地址带查询的厂商名与该记录的地址、国家代码
//   - [WithRandomVendor]：先随机选一个厂商，再按 WithVendor 生成
//
// 选项无效时返回 [ErrInvalidOptions]；没有匹配的记录时 ok 为 false、err 为 nil。
func (r *Registry) Generate(ctx context.Context, opts ...GenerateOption) (Address, bool, error) {
	o := &generateOptions{}
	for _, opt := range opts {
		opt(o)
	}
	mode := modeRandom
	switch {
	case o.isoSet:
		mode = modeCountry
	case o.vendorSet || o.randomVendor:
		mode = modeVendor
	}
	if err := o.validate(); err != nil {
		r.metrics.generate(ctx, mode, resultError)
		return Address{}, false, err
	}
	r.stats.generations.Add(1)

	if mode == modeRandom {
		addr := Address{addr: xmac.FromParts(uint32(r.randN(1<<24)), uint32(r.randN(1<<24)))}
		r.metrics.generate(ctx, mode, resultOK)
		return addr, true, nil
	}

	t, err := r.Tables(ctx)
	if err != nil {
		r.metrics.generate(ctx, mode, resultError)
		return Address{}, false, err
	}

	var (
		addr Address
		ok   bool
	)
	switch {
	case o.isoSet:
		addr, ok = r.generateCountry(t, o.isoCode)
	case o.randomVendor:
		if n := t.Len(); n > 0 {
			addr, ok = r.generateVendor(t, t.prefixes.At(r.randN(n)).Name)
		}
	default:
		addr, ok = r.generateVendor(t, o.vendor)
	}

	if !ok {
		r.metrics.generate(ctx, mode, resultMiss)
		return Address{}, false, nil
	}
	r.metrics.generate(ctx, mode, resultOK)
	return addr, true, nil
}

// GenerateStrict 类似 [Registry.Generate]，没有匹配记录时返回 [ErrNotFoundOuiVendor]。
func (r *Registry) GenerateStrict(ctx context.Context, opts ...GenerateOption) (Address, error) {
	a, ok, err := r.Generate(ctx, opts...)
	if err != nil {
		return Address{}, err
	}
	if !ok {
		return Address{}, ErrNotFoundOuiVendor
	}
	return a, nil
}

// generateVendor 保留查询使用的厂商名。
func (r *Registry) generateVendor(t *Tables, name string) (Address, bool) {
	bucket := t.byVendor[name]
	if len(bucket) == 0 {
		return Address{}, false
	}
	rec := bucket[r.randN(len(bucket))]
	rec.Name = name
	return r.inPrefix(rec), true
}

// generateCountry 保留记录自身的名称，国家代码取查询值。
func (r *Registry) generateCountry(t *Tables, code string) (Address, bool) {
	bucket := t.byISOCode[code]
	if len(bucket) == 0 {
		return Address{}, false
	}
	rec := bucket[r.randN(len(bucket))]
	rec.ISOCode = code
	return r.inPrefix(rec), true
}

// inPrefix 以记录前缀为高 24 位、随机数为低 24 位构造地址。
func (r *Registry) inPrefix(rec Vendor) Address {
	// 前缀已在解析时校验为 6 位十六进制
	oui, _ := strconv.ParseUint(rec.Prefix, 16, 32)
	addr := Address{addr: xmac.FromParts(uint32(oui), uint32(r.randN(1<<24)))}
	return addr.withVendor(rec)
}

// randN 返回 [0, n) 内的均匀随机数。
func (r *Registry) randN(n int) int {
	if r.rand == nil {
		return rand.IntN(n)
	}
	r.randMu.Lock()
	defer r.randMu.Unlock()
	return r.rand.IntN(n)
}
