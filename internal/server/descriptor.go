package server

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// AnalyzerProtoFile is the descriptor path reflection serves for the Analyzer service.
const AnalyzerProtoFile = "leaseanalyzer/v1/analyzer.proto"

var (
	registerOnce sync.Once
	registerErr  error
)

// registerDescriptor adds the Analyzer file descriptor to the global registry so
// reflection clients can describe the service. Every method takes and returns
// google.protobuf.Struct.
func registerDescriptor() error {
	registerOnce.Do(func() {
		registerErr = buildAndRegister()
	})
	return registerErr
}

func buildAndRegister() error {
	if _, err := protoregistry.GlobalFiles.FindFileByPath(AnalyzerProtoFile); err == nil {
		return nil
	}
	structFile := structpb.File_google_protobuf_struct_proto.Path()
	structName := "." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())

	methods := make([]*descriptorpb.MethodDescriptorProto, 0, len(AnalyzerServiceDesc.Methods))
	for _, m := range AnalyzerServiceDesc.Methods {
		methods = append(methods, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(m.MethodName),
			InputType:  proto.String(structName),
			OutputType: proto.String(structName),
		})
	}
	name := protoreflect.FullName(ServiceName)
	fdp := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(AnalyzerProtoFile),
		Package:    proto.String(string(name.Parent())),
		Dependency: []string{structFile},
		Syntax:     proto.String("proto3"),
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name:   proto.String(string(name.Name())),
			Method: methods,
		}},
	}
	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		return fmt.Errorf("build %s: %w", AnalyzerProtoFile, err)
	}
	return protoregistry.GlobalFiles.RegisterFile(fd)
}
