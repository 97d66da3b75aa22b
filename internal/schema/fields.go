package schema

// Canonical field names.
const (
	FieldEntityId  = "vm_id"
	FieldSize      = "vm_size"
	FieldStart     = "start_time"
	FieldEnd       = "end_time"
	FieldGroup     = "group"
	FieldTimestamp = "timestamp"
	FieldCpu       = "cpu"
	FieldMem       = "mem"

	FieldCpuAvg       = "cpu_avg"
	FieldMemAvg       = "mem_avg"
	FieldVCPUs        = "vcpus"
	FieldMemoryGiB    = "memory_gib"
	FieldWorkloadType = "workload_type"
)

var DeploymentFields = []Field{
	{Name: FieldEntityId, Aliases: []string{"vmid", "id", "instance_id", "deployment_id"}},
	{Name: FieldSize, Aliases: []string{"size", "sku", "vm_type", "instance_type"}},
	{Name: FieldStart, Aliases: []string{"start", "created", "start_timestamp"}},
	{Name: FieldEnd, Aliases: []string{"end", "deleted", "end_timestamp"}},
	{Name: FieldGroup, Aliases: []string{"rg", "resource_group", "workload_type", "category"}},
}

var UsageFields = []Field{
	{Name: FieldEntityId, Aliases: []string{"vmid", "id", "instance_id"}},
	{Name: FieldTimestamp, Aliases: []string{"t", "ts", "time"}},
	{Name: FieldCpu, Aliases: []string{"cpu_avg", "avg_cpu", "cpu_util", "cpu_utilization"}},
	{Name: FieldMem, Aliases: []string{"mem_avg", "avg_mem", "memory", "mem_util", "mem_utilization"}},
}

// VMTableFields are the columns of the single-table vmtable export.
var VMTableFields = []Field{
	{Name: FieldEntityId},
	{Name: FieldStart},
	{Name: FieldEnd},
	{Name: FieldCpuAvg},
	{Name: FieldMemAvg},
	{Name: FieldVCPUs},
	{Name: FieldMemoryGiB},
	{Name: FieldWorkloadType},
}
