package grpc

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/linker"
	"go.uber.org/zap"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ErrMethodNotFound is returned by FindMethod when no service declares the method.
var ErrMethodNotFound = errors.New("method not found in proto files")

// FindMethod returns the full gRPC path ("/pkg.Service/Method") and descriptor
// of the first service method named methodName.
func FindMethod(files linker.Files, methodName string) (string, protoreflect.MethodDescriptor, error) {
	for _, file := range files {
		services := file.Services()
		for i := 0; i < services.Len(); i++ {
			md := services.Get(i).Methods().ByName(protoreflect.Name(methodName))
			if md != nil {
				return "/" + string(md.Parent().FullName()) + "/" + string(md.Name()), md, nil
			}
		}
	}
	return "", nil, fmt.Errorf("%w: %s", ErrMethodNotFound, methodName)
}

// CompileProtoFiles compiles the sources (filename -> content). Well-known
// google/protobuf imports resolve without being supplied.
func CompileProtoFiles(protoFiles map[string]string) (linker.Files, error) {
	if len(protoFiles) == 0 {
		return nil, errors.New("no proto files to compile")
	}
	resolver := protocompile.WithStandardImports(&protocompile.SourceResolver{
		Accessor: protocompile.SourceAccessorFromMap(protoFiles),
	})
	compiler := protocompile.Compiler{
		Resolver:       resolver,
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	names := slices.Sorted(maps.Keys(protoFiles))
	files, err := compiler.Compile(context.Background(), names...)
	if err != nil {
		zap.L().Error("failed to compile proto files", zap.Strings("files", names), zap.Error(err))
		return nil, fmt.Errorf("compile proto files: %w", err)
	}
	return files, nil
}
