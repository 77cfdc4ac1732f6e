package router

import (
	"sort"
	"sync"

	"go-gin-gorm-shop/internal/transport/http/ez"
)

// APIModule 每个资源模块在 /api 下自行挂载路由
type APIModule interface{ MountAPI(ez.EZ) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

type Registry struct {
	mu   sync.RWMutex
	mods []APIModule
}

func NewRegistry(mods ...APIModule) *Registry {
	r := &Registry{}
	r.Register(mods...)
	return r
}

func (r *Registry) Register(mods ...APIModule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range mods {
		if m != nil {
			r.mods = append(r.mods, m)
		}
	}
}

// MountAll 按优先级挂载全部模块
func (r *Registry) MountAll(e ez.EZ) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.mods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(e)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
