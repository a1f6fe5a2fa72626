// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/takamaka/node/cache"
	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/classloader"
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/takamaka"
)

// storeJarSource implements classloader.JarSource over the committed
// node store: a classpath transaction reference resolves to whichever
// jar-store response it names, and its single dependency (if any) is the
// classpath that jar-store request was itself verified against (§4.G,
// invariant U3's acyclic dependency DAG). Resolutions are memoized in
// cache, since a committed classpath's decoded jar never changes.
type storeJarSource struct {
	st    *store.Store
	cache *cache.LRU
}

// jarResolution is what storeJarSource.ResolveJar caches per classpath.
type jarResolution struct {
	jar       *classfile.Jar
	deps      []takamaka.Bytes32
	recursive bool
}

func (s storeJarSource) ResolveJar(txRef takamaka.Bytes32) (*classfile.Jar, []takamaka.Bytes32, bool, error) {
	if s.cache != nil {
		v, err := s.cache.GetOrLoad(txRef, func(interface{}) (interface{}, error) {
			jar, deps, recursive, err := s.resolveJar(txRef)
			if err != nil {
				return nil, err
			}
			return jarResolution{jar: jar, deps: deps, recursive: recursive}, nil
		})
		if err != nil {
			return nil, nil, false, err
		}
		r := v.(jarResolution)
		return r.jar, r.deps, r.recursive, nil
	}
	return s.resolveJar(txRef)
}

func (s storeJarSource) resolveJar(txRef takamaka.Bytes32) (*classfile.Jar, []takamaka.Bytes32, bool, error) {
	resp, ok, err := s.st.GetResponse(txRef)
	if err != nil {
		return nil, nil, false, err
	}
	if !ok {
		return nil, nil, false, fmt.Errorf("runtime: classpath %s does not resolve to a committed response", txRef)
	}

	switch r := resp.(type) {
	case *response.JarStoreInitialResponse:
		jar, err := classfile.Decode(r.InstrumentedJar)
		return jar, nil, false, err
	case *response.JarStoreSuccessfulResponse:
		jar, err := classfile.Decode(r.InstrumentedJar)
		if err != nil {
			return nil, nil, false, err
		}
		req, ok, err := s.st.GetRequest(txRef)
		if err != nil {
			return nil, nil, false, err
		}
		if !ok {
			return jar, nil, false, nil
		}
		jarReq, ok := req.(*request.JarStoreRequest)
		if !ok {
			return jar, nil, false, nil
		}
		return jar, []takamaka.Bytes32{jarReq.Classpath}, true, nil
	default:
		return nil, nil, false, fmt.Errorf("runtime: %s is not a jar-store response", txRef)
	}
}

// buildClassLoader resolves classpath to its class loader chain, failing
// the way admission checking expects (unknown classpath → rejection,
// invariant U2).
func buildClassLoader(ctx *Context, classpath takamaka.Bytes32) (*classloader.ClassLoader, error) {
	loader, err := classloader.Build(storeJarSource{st: ctx.Store, cache: ctx.jarCache}, classpath)
	if err != nil {
		return nil, Reject("classpath %s does not resolve to a committed successful jar-store: %v", classpath, err)
	}
	return loader, nil
}
