package roles

// Stable keys of the device-management configuration schema. They travel to
// the configuration UI and must not change; AssetManagment keeps its
// historical spelling for that reason.
const (
	RoleRoot ID = "Root"

	RoleGlobals       ID = "Globals"
	RoleGlobalsGlobal ID = "Globals_Global"

	RoleDataManagement                         ID = "DataManagement"
	RoleDataManagementDatastore                ID = "DataManagement_Datastore"
	RoleDataManagementCacheProvider            ID = "DataManagement_CacheProvider"
	RoleDataManagementDeviceModelInitializer   ID = "DataManagement_DeviceModelInitializer"
	RoleDataManagementAssetModelInitializer    ID = "DataManagement_AssetModelInitializer"
	RoleDataManagementScheduleModelInitializer ID = "DataManagement_ScheduleModelInitializer"

	RoleDeviceCommunication                             ID = "DeviceCommunication"
	RoleDeviceCommunicationEventSources                 ID = "DeviceCommunication_EventSources"
	RoleEventSourcesEventSource                         ID = "EventSources_EventSource"
	RoleEventSourceBinaryEventDecoder                   ID = "EventSource_BinaryEventDecoder"
	RoleDeviceCommunicationInboundProcessingStrategy    ID = "DeviceCommunication_InboundProcessingStrategy"
	RoleInboundProcessingStrategyStrategy               ID = "InboundProcessingStrategy_Strategy"
	RoleDeviceCommunicationRegistration                 ID = "DeviceCommunication_Registration"
	RoleRegistrationRegistrationManager                 ID = "Registration_RegistrationManager"
	RoleDeviceCommunicationBatchOperations              ID = "DeviceCommunication_BatchOperations"
	RoleBatchOperationsBatchOperationManager            ID = "BatchOperations_BatchOperationManager"
	RoleDeviceCommunicationCommandRouting               ID = "DeviceCommunication_CommandRouting"
	RoleCommandRoutingCommandRouter                     ID = "CommandRouting_CommandRouter"
	RoleCommandRoutingSpecificationMappingRouterMapping ID = "CommandRouting_SpecificationMappingRouter_Mapping"
	RoleDeviceCommunicationCommandDestinations          ID = "DeviceCommunication_CommandDestinations"
	RoleCommandDestinationsCommandDestination           ID = "CommandDestinations_CommandDestination"
	RoleCommandDestinationsBinaryCommandEncoder         ID = "CommandDestinations_BinaryCommandEncoder"
	RoleCommandDestinationsParameterExtractor           ID = "CommandDestinations_ParameterExtractor"

	RoleInboundProcessingChain               ID = "InboundProcessingChain"
	RoleInboundProcessingChainEventProcessor ID = "InboundProcessingChain_EventProcessor"

	RoleOutboundProcessingChain ID = "OutboundProcessingChain"

	RoleAssetManagement ID = "AssetManagment"
)

// leaf and group keep the table below readable
func leaf(id ID, name string, optional, multiple, reorderable bool, children ...ID) Role {
	return Role{ID: id, Name: name, Optional: optional, Multiple: multiple, Reorderable: reorderable, Children: children}
}

func group(id ID, multiple bool, children ...ID) Role {
	return Role{ID: id, Multiple: multiple, Children: children}
}

// BuiltinDefinition returns the device-management configuration schema.
// Each call returns a fresh value.
func BuiltinDefinition() Definition {
	return Definition{
		Root: RoleRoot,
		Roles: []Role{
			group(RoleRoot, true,
				RoleGlobals,
				RoleDataManagement,
				RoleDeviceCommunication,
				RoleInboundProcessingChain,
				RoleOutboundProcessingChain,
				RoleAssetManagement),

			group(RoleGlobals, true, RoleGlobalsGlobal),
			leaf(RoleGlobalsGlobal, "Global", true, true, true),

			group(RoleDataManagement, true,
				RoleDataManagementDatastore,
				RoleDataManagementCacheProvider,
				RoleDataManagementDeviceModelInitializer,
				RoleDataManagementAssetModelInitializer,
				RoleDataManagementScheduleModelInitializer),
			leaf(RoleDataManagementDatastore, "Datastore", false, false, false),
			leaf(RoleDataManagementCacheProvider, "Cache Provider", true, false, false),
			leaf(RoleDataManagementDeviceModelInitializer, "Device Model Initializer", true, false, false),
			leaf(RoleDataManagementAssetModelInitializer, "Asset Model Initializer", true, false, false),
			leaf(RoleDataManagementScheduleModelInitializer, "Schedule Model Initializer", true, false, false),

			group(RoleDeviceCommunication, true,
				RoleDeviceCommunicationEventSources,
				RoleDeviceCommunicationInboundProcessingStrategy,
				RoleDeviceCommunicationRegistration,
				RoleDeviceCommunicationBatchOperations,
				RoleDeviceCommunicationCommandRouting,
				RoleDeviceCommunicationCommandDestinations),

			group(RoleDeviceCommunicationEventSources, false, RoleEventSourcesEventSource),
			leaf(RoleEventSourcesEventSource, "Event Source", true, true, true, RoleEventSourceBinaryEventDecoder),
			leaf(RoleEventSourceBinaryEventDecoder, "Binary Event Decoder", true, false, false),

			group(RoleDeviceCommunicationInboundProcessingStrategy, false, RoleInboundProcessingStrategyStrategy),
			leaf(RoleInboundProcessingStrategyStrategy, "Strategy", false, false, false),

			group(RoleDeviceCommunicationRegistration, false, RoleRegistrationRegistrationManager),
			leaf(RoleRegistrationRegistrationManager, "Registration Manager", false, false, false),

			group(RoleDeviceCommunicationBatchOperations, false, RoleBatchOperationsBatchOperationManager),
			leaf(RoleBatchOperationsBatchOperationManager, "Batch Operation Manager", false, false, false),

			group(RoleDeviceCommunicationCommandRouting, false, RoleCommandRoutingCommandRouter),
			// Mappings belong to the specification mapping router implementation.
			leaf(RoleCommandRoutingCommandRouter, "Command Router", false, false, false,
				RoleCommandRoutingSpecificationMappingRouterMapping),
			leaf(RoleCommandRoutingSpecificationMappingRouterMapping, "Mapping", true, true, true),

			group(RoleDeviceCommunicationCommandDestinations, false, RoleCommandDestinationsCommandDestination),
			leaf(RoleCommandDestinationsCommandDestination, "Command Destination", true, true, true,
				RoleCommandDestinationsBinaryCommandEncoder,
				RoleCommandDestinationsParameterExtractor),
			leaf(RoleCommandDestinationsBinaryCommandEncoder, "Binary Command Encoder", false, false, false),
			leaf(RoleCommandDestinationsParameterExtractor, "Parameter Extractor", false, false, false),

			group(RoleInboundProcessingChain, true, RoleInboundProcessingChainEventProcessor),
			leaf(RoleInboundProcessingChainEventProcessor, "Event Processor", true, true, true),

			group(RoleOutboundProcessingChain, true),

			group(RoleAssetManagement, true),
		},
	}
}

// NewBuiltinRegistry validates and builds the device-management schema
func NewBuiltinRegistry() (*Registry, error) {
	return NewRegistry(BuiltinDefinition())
}
