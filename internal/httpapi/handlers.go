package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/database"
	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

type ackResponse struct {
	Message string `json:"message"`
	EmailID string `json:"email_id"`
}

type bulkDeleteResponse struct {
	Requested int      `json:"requested"`
	Deleted   int      `json:"deleted"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids"`
}

type domainsResponse struct {
	Domains []string `json:"domains"`
	Count   int      `json:"count"`
}

type addDomainResponse struct {
	Domain string `json:"domain"`
	Added  bool   `json:"added"`
}

type operationsResponse struct {
	Operations []database.BulkOperation `json:"operations"`
	Count      int                      `json:"count"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (s *Server) listRecent(c *fiber.Ctx) error {
	req, err := parseRecent(c)
	if err != nil {
		return err
	}
	return s.respondListing(c)(s.catalog.ListRecent(c.UserContext(), req.Limit))
}

func (s *Server) listToday(c *fiber.Ctx) error {
	req, err := parseScored(c)
	if err != nil {
		return err
	}
	return s.respondListing(c)(s.catalog.ListToday(c.UserContext(), email.Importance(req.MinScore)))
}

func (s *Server) listByDate(c *fiber.Ctx) error {
	req, err := parseDate(c)
	if err != nil {
		return err
	}
	return s.respondListing(c)(s.catalog.ListByDate(c.UserContext(), req.Date, email.Importance(req.MinScore)))
}

func (s *Server) listByRange(c *fiber.Ctx) error {
	req, err := parseRange(c)
	if err != nil {
		return err
	}
	return s.respondListing(c)(s.catalog.ListByRange(c.UserContext(), req.From, req.To, email.Importance(req.MinScore)))
}

func (s *Server) search(c *fiber.Ctx) error {
	req, err := parseSearch(c)
	if err != nil {
		return err
	}
	return s.respondListing(c)(s.catalog.Search(c.UserContext(), req.Query, email.Importance(req.MinScore)))
}

func (s *Server) respondListing(c *fiber.Ctx) func(*catalog.Listing, error) error {
	return func(listing *catalog.Listing, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(listing)
	}
}

func (s *Server) markRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.catalog.MarkRead(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(ackResponse{Message: "Email marked as read", EmailID: id})
}

func (s *Server) markUnread(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.catalog.MarkUnread(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(ackResponse{Message: "Email marked as unread", EmailID: id})
}

func (s *Server) deleteEmail(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.catalog.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(ackResponse{Message: "Email deleted", EmailID: id})
}

func (s *Server) bulkDelete(c *fiber.Ctx) error {
	req, err := parseBulk(c)
	if err != nil {
		return err
	}
	result := s.catalog.BulkDelete(c.UserContext(), req.IDs)
	return c.JSON(bulkDeleteResponse{
		Requested: result.Requested,
		Deleted:   result.Succeeded,
		Failed:    result.Failed,
		FailedIDs: result.FailedIDs,
	})
}

func (s *Server) bulkMarkRead(c *fiber.Ctx) error {
	req, err := parseBulk(c)
	if err != nil {
		return err
	}
	return c.JSON(s.catalog.BulkMarkRead(c.UserContext(), req.IDs))
}

func (s *Server) bulkMarkUnread(c *fiber.Ctx) error {
	req, err := parseBulk(c)
	if err != nil {
		return err
	}
	return c.JSON(s.catalog.BulkMarkUnread(c.UserContext(), req.IDs))
}

func (s *Server) listDomains(c *fiber.Ctx) error {
	domains := s.catalog.ImportantDomains()
	return c.JSON(domainsResponse{Domains: domains, Count: len(domains)})
}

func (s *Server) addDomain(c *fiber.Ctx) error {
	req, err := parseDomain(c)
	if err != nil {
		return err
	}
	added, err := s.catalog.AddImportantDomain(c.UserContext(), req.Domain)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(addDomainResponse{Domain: req.Domain, Added: added})
}

func (s *Server) listOperations(c *fiber.Ctx) error {
	req, err := parseHistory(c)
	if err != nil {
		return err
	}

	ops := []database.BulkOperation{}
	if s.history != nil {
		found, err := s.history.ListBulkOperations(c.UserContext(), database.HistoryOptions{
			Action: req.Action,
			Limit:  req.Limit,
		})
		if err != nil {
			return err
		}
		if found != nil {
			ops = found
		}
	}

	return c.JSON(operationsResponse{Operations: ops, Count: len(ops)})
}
