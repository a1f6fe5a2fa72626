// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package classloader_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/classloader"
	"github.com/takamaka/node/takamaka"
)

type fakeSource struct {
	jars         map[takamaka.Bytes32]*classfile.Jar
	dependencies map[takamaka.Bytes32][]takamaka.Bytes32
	recursive    map[takamaka.Bytes32]bool
}

func (s fakeSource) ResolveJar(ref takamaka.Bytes32) (*classfile.Jar, []takamaka.Bytes32, bool, error) {
	j, ok := s.jars[ref]
	if !ok {
		return nil, nil, false, fmt.Errorf("no jar at %s", ref)
	}
	return j, s.dependencies[ref], s.recursive[ref], nil
}

func ref(tag string) takamaka.Bytes32 {
	return takamaka.SHA256([]byte(tag))
}

func TestClassLoaderResolvesOwnClass(t *testing.T) {
	root := ref("root")
	source := fakeSource{jars: map[takamaka.Bytes32]*classfile.Jar{
		root: {Classes: map[string]*classfile.Class{"A": {Name: "A"}}},
	}}

	loader, err := classloader.Build(source, root)
	require.NoError(t, err)

	c, ok := loader.Resolve("A")
	require.True(t, ok)
	assert.Equal(t, "A", c.Name)

	_, ok = loader.Resolve("Missing")
	assert.False(t, ok)
}

func TestClassLoaderFallsBackToParentChain(t *testing.T) {
	root := ref("root")
	dep := ref("dep")
	source := fakeSource{
		jars: map[takamaka.Bytes32]*classfile.Jar{
			root: {Classes: map[string]*classfile.Class{"App": {Name: "App"}}},
			dep:  {Classes: map[string]*classfile.Class{"Lib": {Name: "Lib"}}},
		},
		dependencies: map[takamaka.Bytes32][]takamaka.Bytes32{root: {dep}},
		recursive:    map[takamaka.Bytes32]bool{root: true},
	}

	loader, err := classloader.Build(source, root)
	require.NoError(t, err)

	c, ok := loader.Resolve("Lib")
	require.True(t, ok)
	assert.Equal(t, "Lib", c.Name)
	assert.True(t, loader.IsDefinedHere("Lib"))
	assert.True(t, loader.IsDefinedHere("App"))
	assert.False(t, loader.IsDefinedHere("Nowhere"))
}

func TestClassLoaderNonRecursiveIgnoresDependencies(t *testing.T) {
	root := ref("root")
	dep := ref("dep")
	source := fakeSource{
		jars: map[takamaka.Bytes32]*classfile.Jar{
			root: {Classes: map[string]*classfile.Class{"App": {Name: "App"}}},
			dep:  {Classes: map[string]*classfile.Class{"Lib": {Name: "Lib"}}},
		},
		dependencies: map[takamaka.Bytes32][]takamaka.Bytes32{root: {dep}},
		recursive:    map[takamaka.Bytes32]bool{root: false},
	}

	loader, err := classloader.Build(source, root)
	require.NoError(t, err)

	_, ok := loader.Resolve("Lib")
	assert.False(t, ok)
}
