package privacyflow

// Resource groups related operations.
type Resource string

const (
	ResourceMessageActions    Resource = "message-actions"
	ResourceContactManagement Resource = "contact-management"
)

// Operation is a single callable action within a resource.
type Operation string

const (
	OperationSendTextMessage   Operation = "sendTextMessage"
	OperationGetUnreadMessages Operation = "getUnreadMessages"
	OperationListContacts      Operation = "listContacts"

	// OperationPollMessages and OperationHealth are used by the trigger and
	// the credential test. They are not selectable through the dispatcher.
	OperationPollMessages Operation = "pollMessages"
	OperationHealth       Operation = "health"
)

var resourceOperations = map[Resource][]Operation{
	ResourceMessageActions:    {OperationSendTextMessage, OperationGetUnreadMessages},
	ResourceContactManagement: {OperationListContacts},
}

// Resources lists the selectable resources in display order.
func Resources() []Resource {
	return []Resource{ResourceMessageActions, ResourceContactManagement}
}

// Operations returns the operations valid for a resource.
func (r Resource) Operations() []Operation {
	return resourceOperations[r]
}

// Supports reports whether op belongs to the resource.
func (r Resource) Supports(op Operation) bool {
	for _, candidate := range resourceOperations[r] {
		if candidate == op {
			return true
		}
	}

	return false
}

// Resource returns the resource op belongs to, or "" for the trigger and health operations.
func (o Operation) Resource() Resource {
	for resource, ops := range resourceOperations {
		for _, candidate := range ops {
			if candidate == o {
				return resource
			}
		}
	}

	return ""
}

// Dispatchable reports whether op can be selected by a workflow node.
func (o Operation) Dispatchable() bool {
	switch o {
	case OperationSendTextMessage, OperationGetUnreadMessages, OperationListContacts:
		return true
	default:
		return false
	}
}

func (o Operation) failurePrefix() string {
	switch o {
	case OperationSendTextMessage:
		return "Failed to send message"
	case OperationGetUnreadMessages:
		return "Failed to retrieve unread messages"
	case OperationListContacts:
		return "Failed to retrieve contacts"
	case OperationPollMessages:
		return "Failed to poll messages"
	case OperationHealth:
		return "Credential test failed"
	default:
		return "Request failed"
	}
}
