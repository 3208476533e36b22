package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const crewServiceName = "crewboard.v1.CrewService"

// CrewServiceServer is the remote store's API.
type CrewServiceServer interface {
	CreateOuting(ctx context.Context, req *CreateOutingRequest) (*GetOutingResponse, error)
	GetOuting(ctx context.Context, req *GetOutingRequest) (*GetOutingResponse, error)
	ListOutings(ctx context.Context, req *ListOutingsRequest) (*ListOutingsResponse, error)
	WriteSeatAssignment(ctx context.Context, req *WriteSeatAssignmentRequest) (*Empty, error)
	WriteSeatStatus(ctx context.Context, req *WriteSeatStatusRequest) (*Empty, error)
	SetOutingStatus(ctx context.Context, req *SetOutingStatusRequest) (*Empty, error)
	CancelForFlag(ctx context.Context, req *CancelForFlagRequest) (*CancelForFlagResponse, error)
	GetUnavailability(ctx context.Context, req *GetUnavailabilityRequest) (*UnavailabilityResponse, error)
	ReplaceUnavailabilityDay(ctx context.Context, req *ReplaceUnavailabilityDayRequest) (*UnavailabilityResponse, error)
	ReplaceUnavailabilityWeek(ctx context.Context, req *ReplaceUnavailabilityWeekRequest) (*UnavailabilityResponse, error)
	AddMember(ctx context.Context, req *AddMemberRequest) (*MemberResponse, error)
	ListMembers(ctx context.Context, req *Empty) (*ListMembersResponse, error)
	EligibleMembers(ctx context.Context, req *EligibleMembersRequest) (*EligibleMembersResponse, error)
	GetCoxingAvailability(ctx context.Context, req *GetCoxingAvailabilityRequest) (*GetCoxingAvailabilityResponse, error)
	UpdateCoxingAvailability(ctx context.Context, req *UpdateCoxingAvailabilityRequest) (*UpdateCoxingAvailabilityResponse, error)
}

func RegisterCrewServiceServer(s grpc.ServiceRegistrar, srv CrewServiceServer) {
	s.RegisterService(&crewServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + crewServiceName + "/" + name
}

func unaryHandler[Req any, Resp any](name string, call func(CrewServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CrewServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CrewServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var crewServiceDesc = grpc.ServiceDesc{
	ServiceName: crewServiceName,
	HandlerType: (*CrewServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateOuting", CrewServiceServer.CreateOuting),
		unaryHandler("GetOuting", CrewServiceServer.GetOuting),
		unaryHandler("ListOutings", CrewServiceServer.ListOutings),
		unaryHandler("WriteSeatAssignment", CrewServiceServer.WriteSeatAssignment),
		unaryHandler("WriteSeatStatus", CrewServiceServer.WriteSeatStatus),
		unaryHandler("SetOutingStatus", CrewServiceServer.SetOutingStatus),
		unaryHandler("CancelForFlag", CrewServiceServer.CancelForFlag),
		unaryHandler("GetUnavailability", CrewServiceServer.GetUnavailability),
		unaryHandler("ReplaceUnavailabilityDay", CrewServiceServer.ReplaceUnavailabilityDay),
		unaryHandler("ReplaceUnavailabilityWeek", CrewServiceServer.ReplaceUnavailabilityWeek),
		unaryHandler("AddMember", CrewServiceServer.AddMember),
		unaryHandler("ListMembers", CrewServiceServer.ListMembers),
		unaryHandler("EligibleMembers", CrewServiceServer.EligibleMembers),
		unaryHandler("GetCoxingAvailability", CrewServiceServer.GetCoxingAvailability),
		unaryHandler("UpdateCoxingAvailability", CrewServiceServer.UpdateCoxingAvailability),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: crewServiceName,
}
