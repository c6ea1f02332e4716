package types

import (
	"fmt"
	"strings"
)

// Capability names one optional introspection feature an agent may request
// from the runtime.
type Capability string

// The order of these constants is the bit order of the capability block:
// the n-th entry of AllCapabilities occupies bit n.
const (
	CapTagObjects                        Capability = "can_tag_objects"
	CapGenerateFieldModificationEvents   Capability = "can_generate_field_modification_events"
	CapGenerateFieldAccessEvents         Capability = "can_generate_field_access_events"
	CapGetBytecodes                      Capability = "can_get_bytecodes"
	CapGetSyntheticAttribute             Capability = "can_get_synthetic_attribute"
	CapGetOwnedMonitorInfo               Capability = "can_get_owned_monitor_info"
	CapGetCurrentContendedMonitor        Capability = "can_get_current_contended_monitor"
	CapGetMonitorInfo                    Capability = "can_get_monitor_info"
	CapPopFrame                          Capability = "can_pop_frame"
	CapRedefineClasses                   Capability = "can_redefine_classes"
	CapSignalThread                      Capability = "can_signal_thread"
	CapGetSourceFileName                 Capability = "can_get_source_file_name"
	CapGetLineNumbers                    Capability = "can_get_line_numbers"
	CapGetSourceDebugExtension           Capability = "can_get_source_debug_extension"
	CapAccessLocalVariables              Capability = "can_access_local_variables"
	CapMaintainOriginalMethodOrder       Capability = "can_maintain_original_method_order"
	CapGenerateSingleStepEvents          Capability = "can_generate_single_step_events"
	CapGenerateExceptionEvents           Capability = "can_generate_exception_events"
	CapGenerateFramePopEvents            Capability = "can_generate_frame_pop_events"
	CapGenerateBreakpointEvents          Capability = "can_generate_breakpoint_events"
	CapSuspend                           Capability = "can_suspend"
	CapRedefineAnyClass                  Capability = "can_redefine_any_class"
	CapGetCurrentThreadCPUTime           Capability = "can_get_current_thread_cpu_time"
	CapGetThreadCPUTime                  Capability = "can_get_thread_cpu_time"
	CapGenerateMethodEntryEvents         Capability = "can_generate_method_entry_events"
	CapGenerateMethodExitEvents          Capability = "can_generate_method_exit_events"
	CapGenerateAllClassHookEvents        Capability = "can_generate_all_class_hook_events"
	CapGenerateCompiledMethodLoadEvents  Capability = "can_generate_compiled_method_load_events"
	CapGenerateMonitorEvents             Capability = "can_generate_monitor_events"
	CapGenerateVMObjectAllocEvents       Capability = "can_generate_vm_object_alloc_events"
	CapGenerateNativeMethodBindEvents    Capability = "can_generate_native_method_bind_events"
	CapGenerateGarbageCollectionEvents   Capability = "can_generate_garbage_collection_events"
	CapGenerateObjectFreeEvents          Capability = "can_generate_object_free_events"
	CapForceEarlyReturn                  Capability = "can_force_early_return"
	CapGetOwnedMonitorStackDepthInfo     Capability = "can_get_owned_monitor_stack_depth_info"
	CapGetConstantPool                   Capability = "can_get_constant_pool"
	CapSetNativeMethodPrefix             Capability = "can_set_native_method_prefix"
	CapRetransformClasses                Capability = "can_retransform_classes"
	CapRetransformAnyClass               Capability = "can_retransform_any_class"
	CapGenerateResourceExhaustionHeap    Capability = "can_generate_resource_exhaustion_heap_events"
	CapGenerateResourceExhaustionThreads Capability = "can_generate_resource_exhaustion_threads_events"
	CapGenerateEarlyVMStart              Capability = "can_generate_early_vmstart"
	CapGenerateEarlyClassHookEvents      Capability = "can_generate_early_class_hook_events"
	CapGenerateSampledObjectAllocEvents  Capability = "can_generate_sampled_object_alloc_events"
	CapSupportVirtualThreads             Capability = "can_support_virtual_threads"
)

var allCapabilities = [...]Capability{
	CapTagObjects,
	CapGenerateFieldModificationEvents,
	CapGenerateFieldAccessEvents,
	CapGetBytecodes,
	CapGetSyntheticAttribute,
	CapGetOwnedMonitorInfo,
	CapGetCurrentContendedMonitor,
	CapGetMonitorInfo,
	CapPopFrame,
	CapRedefineClasses,
	CapSignalThread,
	CapGetSourceFileName,
	CapGetLineNumbers,
	CapGetSourceDebugExtension,
	CapAccessLocalVariables,
	CapMaintainOriginalMethodOrder,
	CapGenerateSingleStepEvents,
	CapGenerateExceptionEvents,
	CapGenerateFramePopEvents,
	CapGenerateBreakpointEvents,
	CapSuspend,
	CapRedefineAnyClass,
	CapGetCurrentThreadCPUTime,
	CapGetThreadCPUTime,
	CapGenerateMethodEntryEvents,
	CapGenerateMethodExitEvents,
	CapGenerateAllClassHookEvents,
	CapGenerateCompiledMethodLoadEvents,
	CapGenerateMonitorEvents,
	CapGenerateVMObjectAllocEvents,
	CapGenerateNativeMethodBindEvents,
	CapGenerateGarbageCollectionEvents,
	CapGenerateObjectFreeEvents,
	CapForceEarlyReturn,
	CapGetOwnedMonitorStackDepthInfo,
	CapGetConstantPool,
	CapSetNativeMethodPrefix,
	CapRetransformClasses,
	CapRetransformAnyClass,
	CapGenerateResourceExhaustionHeap,
	CapGenerateResourceExhaustionThreads,
	CapGenerateEarlyVMStart,
	CapGenerateEarlyClassHookEvents,
	CapGenerateSampledObjectAllocEvents,
	CapSupportVirtualThreads,
}

// AllCapabilities returns all capabilities available, in bit order
func AllCapabilities() []Capability {
	out := make([]Capability, len(allCapabilities))
	copy(out, allCapabilities[:])
	return out
}

// Index returns the bit position of c, or -1 if c is not a capability.
func (c Capability) Index() int {
	for i, v := range allCapabilities {
		if v == c {
			return i
		}
	}
	return -1
}

// Capabilities defines a list of capabilities
type Capabilities []Capability

// ParseCapabilities splits a comma separated list as produced by Serialize.
// Surrounding whitespace is ignored and empty entries are dropped.
func ParseCapabilities(s string) Capabilities {
	var out Capabilities
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, Capability(part))
		}
	}
	return out
}

// Validate ensures the list of capabilities contains only defined types and no duplicates
func (c Capabilities) Validate() error {
	idx := make(map[Capability]struct{}, len(c))
	for _, v := range c {
		if v.Index() < 0 {
			return fmt.Errorf("not a capability: %q", v)
		}
		if _, exists := idx[v]; exists {
			return fmt.Errorf("duplicate: %q", v)
		}
		idx[v] = struct{}{}
	}
	return nil
}

// Serialize converts the capabilities into a comma separated string representation
func (c Capabilities) Serialize() string {
	s := make([]string, len(c))
	for i, v := range c {
		s[i] = string(v)
	}
	return strings.Join(s, ",")
}
